package dto

// Money fields are decimal strings with exactly two places, e.g. "24.00".

type BagLine struct {
	Key          string `json:"key"`
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	OptionID     *int64 `json:"optionId,omitempty"`
	OptionLabel  string `json:"optionLabel,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unitPrice"`
	LineTotal    string `json:"lineTotal"`
	PerUnitPrice string `json:"perUnitPrice,omitempty"`
}

type Bag struct {
	Lines             []BagLine `json:"lines"`
	ItemCount         int       `json:"itemCount"`
	Subtotal          string    `json:"subtotal"`
	Delivery          string    `json:"delivery"`
	FreeDeliveryDelta string    `json:"freeDeliveryDelta"`
	DiscountCode      string    `json:"discountCode,omitempty"`
	DiscountAmount    string    `json:"discountAmount"`
	GrandTotal        string    `json:"grandTotal"`
	Skipped           []string  `json:"skipped,omitempty"`
	Notices           []string  `json:"notices,omitempty"`
}
