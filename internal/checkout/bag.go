package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/bag"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

const depositLimitNotice = "Custom cake deposit is already in your bag (quantity is limited to 1)."

// LineUpdate describes the bag line after a mutation.
type LineUpdate struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
	Notice   string `json:"notice,omitempty"`
}

// AddItem merges qty into the bag. The option is kept only when the product's
// category supports pack options and the option belongs to the product.
func (s *Service) AddItem(ctx context.Context, c Customer, productID int64, optionID *int64, qty int) (LineUpdate, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return LineUpdate{}, err
	}
	key, err := s.lineKey(ctx, p, optionID)
	if err != nil {
		return LineUpdate{}, err
	}

	st, err := s.sessions.Load(ctx, c.SessionID)
	if err != nil {
		return LineUpdate{}, err
	}

	upd := LineUpdate{Key: key}
	if s.isDeposit(p) {
		if st.Bag.Quantity(key) > 0 {
			upd.Notice = depositLimitNotice
		}
		st.Bag.Set(key, 1)
	} else {
		st.Bag.Add(key, qty)
	}
	upd.Quantity = st.Bag.Quantity(key)

	if err := s.sessions.Save(ctx, c.SessionID, st); err != nil {
		return LineUpdate{}, err
	}
	return upd, nil
}

// SetItem replaces the quantity of a line; qty <= 0 removes it.
func (s *Service) SetItem(ctx context.Context, c Customer, productID int64, optionID *int64, qty int) (LineUpdate, error) {
	key := bag.Encode(productID, optionID)

	st, err := s.sessions.Load(ctx, c.SessionID)
	if err != nil {
		return LineUpdate{}, err
	}

	upd := LineUpdate{Key: key}
	if qty > 0 {
		p, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return LineUpdate{}, err
		}
		if s.isDeposit(p) && qty > 1 {
			qty = 1
			upd.Notice = p.Name + " quantity is limited to 1."
		}
	}
	st.Bag.Set(key, qty)
	upd.Quantity = st.Bag.Quantity(key)

	if err := s.sessions.Save(ctx, c.SessionID, st); err != nil {
		return LineUpdate{}, err
	}
	return upd, nil
}

// RemoveItem deletes a line unconditionally.
func (s *Service) RemoveItem(ctx context.Context, c Customer, productID int64, optionID *int64) error {
	st, err := s.sessions.Load(ctx, c.SessionID)
	if err != nil {
		return err
	}
	st.Bag.Remove(bag.Encode(productID, optionID))
	return s.sessions.Save(ctx, c.SessionID, st)
}

func (s *Service) lineKey(ctx context.Context, p catalog.Product, optionID *int64) (string, error) {
	if optionID == nil || !p.SupportsPackOptions() {
		return bag.Encode(p.ID, nil), nil
	}
	o, err := s.catalog.GetOption(ctx, p.ID, *optionID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return bag.Encode(p.ID, nil), nil
		}
		return "", fmt.Errorf("resolve option: %w", err)
	}
	return bag.Encode(p.ID, &o.ID), nil
}

func (s *Service) isDeposit(p catalog.Product) bool {
	return s.cfg.DepositSKU != "" && p.SKU == s.cfg.DepositSKU
}
