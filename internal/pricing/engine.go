// Package pricing turns a bag into a priced summary: line totals, delivery,
// discount and grand total. Malformed or stale lines are skipped, never fatal.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/bag"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

var (
	FreeDeliveryThreshold = decimal.RequireFromString("50.00")
	StandardDeliveryFee   = decimal.RequireFromString("5.00")
)

// Catalog is the read side of the product catalog the engine prices against.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	GetOption(ctx context.Context, productID, optionID int64) (catalog.Option, error)
}

// Discounter yields the discount for a code at a given subtotal.
type Discounter interface {
	Amount(code string, subtotal decimal.Decimal) decimal.Decimal
}

type Engine struct {
	catalog    Catalog
	discounter Discounter
}

func NewEngine(c Catalog, d Discounter) *Engine {
	return &Engine{catalog: c, discounter: d}
}

// Price computes the summary for b. discountCode may be empty. The bag is not modified.
func (e *Engine) Price(ctx context.Context, b bag.Bag, discountCode string) (Summary, error) {
	s := Summary{
		Lines:          []Line{},
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
	}

	for _, key := range b.Keys() {
		qty := b[key]
		if qty <= 0 {
			s.Skipped = append(s.Skipped, key)
			continue
		}

		line, ok, err := e.priceLine(ctx, key, qty)
		if err != nil {
			return Summary{}, err
		}
		if !ok {
			s.Skipped = append(s.Skipped, key)
			continue
		}

		s.Lines = append(s.Lines, line)
		s.Subtotal = s.Subtotal.Add(line.LineTotal)
		s.ItemCount += line.Quantity
	}

	s.Delivery, s.FreeDeliveryDelta = delivery(s.ItemCount, s.Subtotal)

	if discountCode != "" && e.discounter != nil {
		s.DiscountCode = discountCode
		s.DiscountAmount = clamp(e.discounter.Amount(discountCode, s.Subtotal), s.Subtotal)
	}

	s.GrandTotal = s.Subtotal.Sub(s.DiscountAmount).Add(s.Delivery)
	if s.GrandTotal.IsNegative() {
		s.GrandTotal = decimal.Zero
	}
	return s, nil
}

// priceLine returns ok=false for lines that must be skipped: malformed keys and
// products that no longer exist.
func (e *Engine) priceLine(ctx context.Context, key string, qty int) (Line, bool, error) {
	lk, err := bag.ParseLineKey(key)
	if err != nil {
		return Line{}, false, nil
	}

	product, err := e.catalog.GetProduct(ctx, lk.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Line{}, false, nil
		}
		return Line{}, false, fmt.Errorf("price line %q: %w", key, err)
	}

	option, err := e.resolveOption(ctx, product, lk)
	if err != nil {
		return Line{}, false, fmt.Errorf("price line %q: %w", key, err)
	}

	line := Line{
		Key:         key,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    qty,
		UnitPrice:   product.UnitPrice(),
	}
	if option != nil {
		id := option.ID
		line.OptionID = &id
		line.OptionLabel = option.Label
		line.UnitPrice = option.PackPrice(product.UnitPrice())
		if option.PackQuantity > 0 {
			per := line.UnitPrice.Div(decimal.NewFromInt(int64(option.PackQuantity))).Round(2)
			line.PerUnitPrice = &per
		}
	}
	line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	return line, true, nil
}

// resolveOption honours the option only for pack-priced categories and only when
// the option belongs to the product. Anything else prices as a plain product.
func (e *Engine) resolveOption(ctx context.Context, p catalog.Product, lk bag.LineKey) (*catalog.Option, error) {
	if !lk.HasOption() || !p.SupportsPackOptions() {
		return nil, nil
	}
	o, err := e.catalog.GetOption(ctx, p.ID, *lk.OptionID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if o.ProductID != p.ID {
		return nil, nil
	}
	return &o, nil
}

func delivery(itemCount int, subtotal decimal.Decimal) (fee, delta decimal.Decimal) {
	if itemCount == 0 || subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		return decimal.Zero, decimal.Zero
	}
	return StandardDeliveryFee, FreeDeliveryThreshold.Sub(subtotal)
}

func clamp(amount, limit decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(limit) {
		return limit
	}
	return amount
}
