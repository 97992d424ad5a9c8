package events

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

type OrderLine struct {
	ProductID int64           `json:"productId"`
	OptionID  *int64          `json:"optionId,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderPlacedPayload struct {
	OrderNumber    string          `json:"orderNumber"`
	UserID         string          `json:"userId,omitempty"`
	PaymentRef     string          `json:"paymentRef,omitempty"`
	OrderTotal     decimal.Decimal `json:"orderTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DiscountCode   string          `json:"discountCode,omitempty"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	Lines          []OrderLine     `json:"lines"`
}

type OrderPaidPayload struct {
	OrderNumber string `json:"orderNumber"`
	UserID      string `json:"userId,omitempty"`
	PaymentRef  string `json:"paymentRef"`
}

// PaymentSucceededPayload is published by the payment side once a payment
// reference has been settled.
type PaymentSucceededPayload struct {
	PaymentRef string `json:"paymentRef"`
}

func orderPlacedPayload(o order.Order) OrderPlacedPayload {
	p := OrderPlacedPayload{
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		PaymentRef:     o.PaymentRef,
		OrderTotal:     o.OrderTotal,
		DiscountAmount: o.DiscountAmount,
		DiscountCode:   o.DiscountCode,
		GrandTotal:     o.GrandTotal(),
	}
	for _, li := range o.LineItems {
		p.Lines = append(p.Lines, OrderLine{
			ProductID: li.ProductID,
			OptionID:  li.OptionID,
			Quantity:  li.Quantity,
			UnitPrice: li.Price,
		})
	}
	return p
}
