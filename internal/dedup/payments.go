// Package dedup remembers, per consumer, the highest payment event sequence
// applied for each payment reference.
package dedup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PaymentCheckpoints interface {
	// Applied reports whether an event with seq for paymentRef was already handled.
	Applied(ctx context.Context, consumer, paymentRef string, seq int64) (bool, error)
	Advance(ctx context.Context, consumer, paymentRef string, seq int64) error
}

type paymentCheckpoints struct {
	db *sql.DB
}

func NewPaymentCheckpoints(db *sql.DB) PaymentCheckpoints {
	return &paymentCheckpoints{db: db}
}

func (p *paymentCheckpoints) Applied(ctx context.Context, consumer, paymentRef string, seq int64) (bool, error) {
	var last int64
	err := p.db.QueryRowContext(ctx, `
		SELECT last_sequence
		FROM payment_event_checkpoint
		WHERE consumer_name = $1 AND payment_ref = $2
	`, consumer, paymentRef).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("load checkpoint for %s: %w", paymentRef, err)
	}
	return seq <= last, nil
}

// Advance never moves a checkpoint backwards.
func (p *paymentCheckpoints) Advance(ctx context.Context, consumer, paymentRef string, seq int64) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO payment_event_checkpoint (consumer_name, payment_ref, last_sequence, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (consumer_name, payment_ref)
		DO UPDATE SET
			last_sequence = GREATEST(payment_event_checkpoint.last_sequence, EXCLUDED.last_sequence),
			updated_at = NOW()
	`, consumer, paymentRef, seq)
	if err != nil {
		return fmt.Errorf("advance checkpoint for %s: %w", paymentRef, err)
	}
	return nil
}
