package httpapi

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payment"
)

type fakeStorefront struct {
	PriceBagFn            func(ctx context.Context, c checkout.Customer) (checkout.View, error)
	AddItemFn             func(ctx context.Context, c checkout.Customer, productID int64, optionID *int64, qty int) (checkout.LineUpdate, error)
	SetItemFn             func(ctx context.Context, c checkout.Customer, productID int64, optionID *int64, qty int) (checkout.LineUpdate, error)
	RemoveItemFn          func(ctx context.Context, c checkout.Customer, productID int64, optionID *int64) error
	ApplyDiscountFn       func(ctx context.Context, c checkout.Customer, code string) (checkout.View, error)
	RemoveDiscountFn      func(ctx context.Context, c checkout.Customer) error
	CreatePaymentIntentFn func(ctx context.Context, c checkout.Customer) (checkout.PaymentIntent, error)
	ConfirmOrderFn        func(ctx context.Context, c checkout.Customer, shipping order.ShippingDetails, paymentRef string, saveInfo bool) (order.Order, error)
	CheckoutDefaultsFn    func(ctx context.Context, c checkout.Customer) (order.ShippingDetails, error)
	GetOrderFn            func(ctx context.Context, c checkout.Customer, orderNumber string) (order.Order, error)
	ListOrdersFn          func(ctx context.Context, c checkout.Customer) ([]order.Order, error)
	MarkPaidFn            func(ctx context.Context, paymentRef string) error
}

func (f *fakeStorefront) PriceBag(ctx context.Context, c checkout.Customer) (checkout.View, error) {
	return f.PriceBagFn(ctx, c)
}

func (f *fakeStorefront) AddItem(ctx context.Context, c checkout.Customer, productID int64, optionID *int64, qty int) (checkout.LineUpdate, error) {
	return f.AddItemFn(ctx, c, productID, optionID, qty)
}

func (f *fakeStorefront) SetItem(ctx context.Context, c checkout.Customer, productID int64, optionID *int64, qty int) (checkout.LineUpdate, error) {
	return f.SetItemFn(ctx, c, productID, optionID, qty)
}

func (f *fakeStorefront) RemoveItem(ctx context.Context, c checkout.Customer, productID int64, optionID *int64) error {
	return f.RemoveItemFn(ctx, c, productID, optionID)
}

func (f *fakeStorefront) ApplyDiscount(ctx context.Context, c checkout.Customer, code string) (checkout.View, error) {
	return f.ApplyDiscountFn(ctx, c, code)
}

func (f *fakeStorefront) RemoveDiscount(ctx context.Context, c checkout.Customer) error {
	return f.RemoveDiscountFn(ctx, c)
}

func (f *fakeStorefront) CreatePaymentIntent(ctx context.Context, c checkout.Customer) (checkout.PaymentIntent, error) {
	return f.CreatePaymentIntentFn(ctx, c)
}

func (f *fakeStorefront) ConfirmOrder(ctx context.Context, c checkout.Customer, shipping order.ShippingDetails, paymentRef string, saveInfo bool) (order.Order, error) {
	return f.ConfirmOrderFn(ctx, c, shipping, paymentRef, saveInfo)
}

func (f *fakeStorefront) CheckoutDefaults(ctx context.Context, c checkout.Customer) (order.ShippingDetails, error) {
	return f.CheckoutDefaultsFn(ctx, c)
}

func (f *fakeStorefront) GetOrder(ctx context.Context, c checkout.Customer, orderNumber string) (order.Order, error) {
	return f.GetOrderFn(ctx, c, orderNumber)
}

func (f *fakeStorefront) ListOrders(ctx context.Context, c checkout.Customer) ([]order.Order, error) {
	return f.ListOrdersFn(ctx, c)
}

func (f *fakeStorefront) MarkPaid(ctx context.Context, paymentRef string) error {
	return f.MarkPaidFn(ctx, paymentRef)
}

type fakeWebhook struct {
	enabled bool
	event   payment.WebhookEvent
	err     error
	gotSig  string
}

func (f *fakeWebhook) Enabled() bool { return f.enabled }

func (f *fakeWebhook) Parse(_ []byte, signature string) (payment.WebhookEvent, error) {
	f.gotSig = signature
	return f.event, f.err
}
