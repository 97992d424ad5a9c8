package pricing

import "github.com/shopspring/decimal"

type Line struct {
	Key         string          `json:"key"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	OptionID    *int64          `json:"optionId,omitempty"`
	OptionLabel string          `json:"optionLabel,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	// PerUnitPrice is the price of one item inside a pack. Display only.
	PerUnitPrice *decimal.Decimal `json:"perUnitPrice,omitempty"`
}

type Summary struct {
	Lines             []Line          `json:"lines"`
	ItemCount         int             `json:"itemCount"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Delivery          decimal.Decimal `json:"delivery"`
	FreeDeliveryDelta decimal.Decimal `json:"freeDeliveryDelta"`
	DiscountCode      string          `json:"discountCode,omitempty"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
	// Skipped lists bag keys that could not be priced.
	Skipped []string `json:"skipped,omitempty"`
}

// AmountCents is the grand total in minor currency units.
func (s Summary) AmountCents() int64 {
	return s.GrandTotal.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
