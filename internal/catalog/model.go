package catalog

import "github.com/shopspring/decimal"

type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FriendlyName string `json:"friendlyName,omitempty"`
	// SupportsPackOptions enables option (box/bundle) pricing for products in this category.
	SupportsPackOptions bool `json:"supportsPackOptions"`
}

type Product struct {
	ID          int64               `json:"id"`
	Category    *Category           `json:"category,omitempty"`
	SKU         string              `json:"sku,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Price       decimal.NullDecimal `json:"price"`
	IsCustom    bool                `json:"isCustom"`
}

// UnitPrice is the base price, or zero when the product has none.
func (p Product) UnitPrice() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

func (p Product) SupportsPackOptions() bool {
	return p.Category != nil && p.Category.SupportsPackOptions
}

// Option is a purchasable pack of a product, e.g. a box of 6.
type Option struct {
	ID           int64               `json:"id"`
	ProductID    int64               `json:"productId"`
	Label        string              `json:"label"`
	PackQuantity int                 `json:"packQuantity"`
	Price        decimal.NullDecimal `json:"price"`
}

// PackPrice returns the explicit option price, or base × pack quantity.
func (o Option) PackPrice(base decimal.Decimal) decimal.Decimal {
	if o.Price.Valid {
		return o.Price.Decimal
	}
	return base.Mul(decimal.NewFromInt(int64(o.PackQuantity)))
}
