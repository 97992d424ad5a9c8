package dto

import "time"

type OrderLine struct {
	ID            string `json:"id"`
	ProductID     int64  `json:"productId"`
	ProductName   string `json:"productName"`
	OptionID      *int64 `json:"optionId,omitempty"`
	OptionLabel   string `json:"optionLabel,omitempty"`
	Quantity      int    `json:"quantity"`
	LineitemPrice string `json:"lineitemPrice"`
	LineitemTotal string `json:"lineitemTotal"`
}

// Order is the receipt view. OrderTotal is subtotal plus delivery before the
// discount; GrandTotal is what the customer pays.
type Order struct {
	OrderNumber    string      `json:"orderNumber"`
	UserID         string      `json:"userId,omitempty"`
	Shipping       Shipping    `json:"shipping"`
	Subtotal       string      `json:"subtotal"`
	DeliveryCost   string      `json:"deliveryCost"`
	OrderTotal     string      `json:"orderTotal"`
	DiscountCode   string      `json:"discountCode,omitempty"`
	DiscountAmount string      `json:"discountAmount"`
	GrandTotal     string      `json:"grandTotal"`
	OriginalBag    string      `json:"originalBag"`
	PaymentRef     string      `json:"paymentRef,omitempty"`
	Paid           bool        `json:"paid"`
	CreatedAt      time.Time   `json:"createdAt"`
	LineItems      []OrderLine `json:"lineItems"`
}
