package checkout

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// PriceBag prices the customer's bag. A stored discount code is re-checked for
// eligibility first; an ineligible code is removed and a one-time notice queued.
// Pending notices are returned once and then cleared.
func (s *Service) PriceBag(ctx context.Context, c Customer) (View, error) {
	_, v, err := s.price(ctx, c)
	return v, err
}

func (s *Service) price(ctx context.Context, c Customer) (session.State, View, error) {
	st, err := s.sessions.Load(ctx, c.SessionID)
	if err != nil {
		return session.State{}, View{}, err
	}

	dirty := false
	if code := st.DiscountCode; code != "" {
		ok, err := s.policy.Eligible(ctx, code, c.UserID)
		if err != nil {
			return session.State{}, View{}, err
		}
		if !ok {
			s.logger.Info("discount revoked",
				zap.String("code", code),
				zap.String("user_id", c.UserID),
			)
			st.DiscountCode = ""
			st.Queue(discount.UsedNotice(code))
			dirty = true
		}
	}

	summary, err := s.engine.Price(ctx, st.Bag, st.DiscountCode)
	if err != nil {
		return session.State{}, View{}, err
	}
	if len(summary.Skipped) > 0 {
		s.logger.Debug("skipped bag lines", zap.Strings("keys", summary.Skipped))
	}

	v := View{Summary: summary}
	if len(st.Notices) > 0 {
		v.Notices = st.Drain()
		dirty = true
	}
	if dirty {
		if err := s.sessions.Save(ctx, c.SessionID, st); err != nil {
			return session.State{}, View{}, err
		}
	}
	return st, v, nil
}

// ApplyDiscount stores code on the session when the policy accepts it against
// the current bag. A rejected code clears any previously applied one and the
// returned error wraps a *discount.RejectionError.
func (s *Service) ApplyDiscount(ctx context.Context, c Customer, code string) (View, error) {
	st, err := s.sessions.Load(ctx, c.SessionID)
	if err != nil {
		return View{}, err
	}

	summary, err := s.engine.Price(ctx, st.Bag, "")
	if err != nil {
		return View{}, err
	}

	if err := s.policy.Validate(ctx, code, summary.ItemCount, summary.Subtotal, c.UserID); err != nil {
		var rej *discount.RejectionError
		if errors.As(err, &rej) && !errors.Is(err, discount.ErrEmptyCode) && st.DiscountCode != "" {
			st.DiscountCode = ""
			if saveErr := s.sessions.Save(ctx, c.SessionID, st); saveErr != nil {
				return View{}, saveErr
			}
		}
		return View{}, err
	}

	st.DiscountCode = discount.Normalize(code)
	if err := s.sessions.Save(ctx, c.SessionID, st); err != nil {
		return View{}, err
	}
	return s.PriceBag(ctx, c)
}

// RemoveDiscount clears the discount code unconditionally.
func (s *Service) RemoveDiscount(ctx context.Context, c Customer) error {
	st, err := s.sessions.Load(ctx, c.SessionID)
	if err != nil {
		return err
	}
	st.DiscountCode = ""
	return s.sessions.Save(ctx, c.SessionID, st)
}
