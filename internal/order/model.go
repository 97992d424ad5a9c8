package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingDetails is the contact and delivery address captured at checkout.
type ShippingDetails struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	Country        string `json:"country"`
	Postcode       string `json:"postcode,omitempty"`
	TownOrCity     string `json:"townOrCity"`
	StreetAddress1 string `json:"streetAddress1"`
	StreetAddress2 string `json:"streetAddress2,omitempty"`
	County         string `json:"county,omitempty"`
}

type LineItem struct {
	ID          string          `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	OptionID    *int64          `json:"optionId,omitempty"`
	OptionLabel string          `json:"optionLabel,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"lineitemPrice"`
	Total       decimal.Decimal `json:"lineitemTotal"`
}

// LineTotal is Price × Quantity. The repository persists it on every save.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order is a frozen receipt. OrderTotal is the pre-discount amount
// (subtotal + delivery); the payable amount is GrandTotal.
type Order struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"orderNumber"`
	UserID         string          `json:"userId,omitempty"`
	Shipping       ShippingDetails `json:"shipping"`
	DeliveryCost   decimal.Decimal `json:"deliveryCost"`
	OrderTotal     decimal.Decimal `json:"orderTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DiscountCode   string          `json:"discountCode,omitempty"`
	OriginalBag    string          `json:"originalBag"`
	PaymentRef     string          `json:"paymentRef,omitempty"`
	Paid           bool            `json:"paid"`
	CreatedAt      time.Time       `json:"createdAt"`
	LineItems      []LineItem      `json:"lineItems"`

	// SessionID is the session that confirmed the order. It proves ownership
	// of guest orders and is never sent to clients.
	SessionID string `json:"-"`
}

func (o Order) GrandTotal() decimal.Decimal {
	return o.OrderTotal.Sub(o.DiscountAmount)
}

// Subtotal is the sum of the line item totals.
func (o Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range o.LineItems {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}
