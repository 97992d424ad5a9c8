package httpapi

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/httpapi/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toBag(v checkout.View) dto.Bag {
	out := dto.Bag{
		Lines:             make([]dto.BagLine, 0, len(v.Lines)),
		ItemCount:         v.ItemCount,
		Subtotal:          money(v.Subtotal),
		Delivery:          money(v.Delivery),
		FreeDeliveryDelta: money(v.FreeDeliveryDelta),
		DiscountCode:      v.DiscountCode,
		DiscountAmount:    money(v.DiscountAmount),
		GrandTotal:        money(v.GrandTotal),
		Skipped:           v.Skipped,
		Notices:           v.Notices,
	}
	for _, l := range v.Lines {
		line := dto.BagLine{
			Key:         l.Key,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			OptionID:    l.OptionID,
			OptionLabel: l.OptionLabel,
			Quantity:    l.Quantity,
			UnitPrice:   money(l.UnitPrice),
			LineTotal:   money(l.LineTotal),
		}
		if l.PerUnitPrice != nil {
			line.PerUnitPrice = money(*l.PerUnitPrice)
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

func toPaymentIntent(pi checkout.PaymentIntent, publicKey string) dto.PaymentIntent {
	return dto.PaymentIntent{
		Bag:       toBag(pi.View),
		Intent:    dto.Intent{ID: pi.Intent.ID, ClientSecret: pi.Intent.ClientSecret},
		Currency:  pi.Currency,
		Warning:   pi.Warning,
		PublicKey: publicKey,
	}
}

func toShipping(s order.ShippingDetails) dto.Shipping {
	return dto.Shipping(s)
}

func fromShipping(s dto.Shipping) order.ShippingDetails {
	return order.ShippingDetails(s)
}

func toOrder(o order.Order) dto.Order {
	out := dto.Order{
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		Shipping:       toShipping(o.Shipping),
		Subtotal:       money(o.Subtotal()),
		DeliveryCost:   money(o.DeliveryCost),
		OrderTotal:     money(o.OrderTotal),
		DiscountCode:   o.DiscountCode,
		DiscountAmount: money(o.DiscountAmount),
		GrandTotal:     money(o.GrandTotal()),
		OriginalBag:    o.OriginalBag,
		PaymentRef:     o.PaymentRef,
		Paid:           o.Paid,
		CreatedAt:      o.CreatedAt,
		LineItems:      make([]dto.OrderLine, 0, len(o.LineItems)),
	}
	for _, li := range o.LineItems {
		out.LineItems = append(out.LineItems, dto.OrderLine{
			ID:            li.ID,
			ProductID:     li.ProductID,
			ProductName:   li.ProductName,
			OptionID:      li.OptionID,
			OptionLabel:   li.OptionLabel,
			Quantity:      li.Quantity,
			LineitemPrice: money(li.Price),
			LineitemTotal: money(li.LineTotal()),
		})
	}
	return out
}

func toOrders(orders []order.Order) []dto.Order {
	out := make([]dto.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o))
	}
	return out
}
