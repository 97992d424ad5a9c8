package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/bag"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

var ErrInvalidShipping = errors.New("invalid shipping details")

// Validate checks the fields the order form requires.
func (d ShippingDetails) Validate() error {
	fields := []struct{ name, value string }{
		{"fullName", d.FullName},
		{"email", d.Email},
		{"phoneNumber", d.PhoneNumber},
		{"country", d.Country},
		{"townOrCity", d.TownOrCity},
		{"streetAddress1", d.StreetAddress1},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidShipping, strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return fmt.Errorf("%w: email: %v", ErrInvalidShipping, err)
	}
	return nil
}

// NewOrderNumber returns a 32 character upper-case hex order number.
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Materialize snapshots a priced bag into an order. Line prices are copied from
// the summary so later catalog changes never reach the receipt.
func Materialize(userID string, shipping ShippingDetails, b bag.Bag, s pricing.Summary, paymentRef string, now time.Time) (Order, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return Order{}, fmt.Errorf("encode original bag: %w", err)
	}

	o := Order{
		ID:             uuid.NewString(),
		OrderNumber:    NewOrderNumber(),
		UserID:         userID,
		Shipping:       shipping,
		DeliveryCost:   s.Delivery,
		OrderTotal:     s.Subtotal.Add(s.Delivery),
		DiscountAmount: s.DiscountAmount,
		DiscountCode:   s.DiscountCode,
		OriginalBag:    string(raw),
		PaymentRef:     paymentRef,
		CreatedAt:      now.UTC(),
	}
	if s.DiscountAmount.IsZero() {
		o.DiscountCode = ""
	}

	for _, l := range s.Lines {
		li := LineItem{
			ID:          uuid.NewString(),
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			OptionLabel: l.OptionLabel,
			Quantity:    l.Quantity,
			Price:       l.UnitPrice,
		}
		if l.OptionID != nil {
			id := *l.OptionID
			li.OptionID = &id
		}
		li.Total = li.LineTotal()
		o.LineItems = append(o.LineItems, li)
	}
	return o, nil
}
