// Package sequence numbers the events published for each order so consumers
// can apply them in order and drop replays.
package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

// ErrUnknownOrder is returned when numbering an event for an order that was
// never stored.
var ErrUnknownOrder = errors.New("unknown order")

// Orders hands out event sequence numbers per order number.
type Orders interface {
	Next(ctx context.Context, orderNumber string) (int64, error)
}

type orderSequence struct {
	db *sql.DB
}

func NewOrderSequence(db *sql.DB) Orders {
	return &orderSequence{db: db}
}

const nextOrderSequence = `
	INSERT INTO order_event_sequence (order_number, last_sequence, updated_at)
	VALUES ($1, 1, NOW())
	ON CONFLICT (order_number)
	DO UPDATE SET last_sequence = order_event_sequence.last_sequence + 1, updated_at = NOW()
	RETURNING last_sequence`

// Next returns 1 for the first event of an order and increments afterwards.
func (s *orderSequence) Next(ctx context.Context, orderNumber string) (int64, error) {
	if orderNumber == "" {
		return 0, fmt.Errorf("next sequence: %w", ErrUnknownOrder)
	}
	var seq int64
	if err := s.db.QueryRowContext(ctx, nextOrderSequence, orderNumber).Scan(&seq); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return 0, fmt.Errorf("next sequence for order %s: %w", orderNumber, ErrUnknownOrder)
		}
		return 0, fmt.Errorf("next sequence for order %s: %w", orderNumber, err)
	}
	return seq, nil
}
