// Package session holds per-customer checkout state: the bag, an applied discount
// code and one-time notices. Writes are last-write-wins.
package session

import (
	"context"
	"errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/bag"
)

var ErrNoSession = errors.New("session id is required")

type State struct {
	Bag          bag.Bag  `json:"bag"`
	DiscountCode string   `json:"discountCode,omitempty"`
	Notices      []string `json:"notices,omitempty"`
}

// Queue adds a notice unless an identical one is already pending.
func (s *State) Queue(notice string) {
	for _, n := range s.Notices {
		if n == notice {
			return
		}
	}
	s.Notices = append(s.Notices, notice)
}

// Drain returns and clears the pending notices.
func (s *State) Drain() []string {
	out := s.Notices
	s.Notices = nil
	return out
}

func (s State) clone() State {
	out := State{DiscountCode: s.DiscountCode, Bag: bag.New()}
	if s.Bag != nil {
		out.Bag = s.Bag.Clone()
	}
	if len(s.Notices) > 0 {
		out.Notices = append([]string(nil), s.Notices...)
	}
	return out
}

type Store interface {
	// Load returns the state for id, or an empty state if none is stored.
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, s State) error
	Clear(ctx context.Context, id string) error
}
