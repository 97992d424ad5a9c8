package checkout

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payment"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/profile"
)

type fakeCatalog struct {
	products map[int64]catalog.Product
	options  map[int64]catalog.Option
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) GetProductBySKU(ctx context.Context, sku string) (catalog.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (f *fakeCatalog) GetOption(ctx context.Context, productID, optionID int64) (catalog.Option, error) {
	o, ok := f.options[optionID]
	if !ok || o.ProductID != productID {
		return catalog.Option{}, catalog.ErrNotFound
	}
	return o, nil
}

func (f *fakeCatalog) setPrice(id int64, price string) {
	p := f.products[id]
	p.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	f.products[id] = p
}

// fakeOrders is an in-memory order.Repository.
type fakeOrders struct {
	mu        sync.Mutex
	byNumber  map[string]order.Order
	createErr error
	creates   int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byNumber: map[string]order.Order{}}
}

func (f *fakeOrders) Create(ctx context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if o.PaymentRef != "" {
		for _, existing := range f.byNumber {
			if existing.PaymentRef == o.PaymentRef {
				return order.ErrDuplicatePaymentRef
			}
		}
	}
	for i := range o.LineItems {
		o.LineItems[i].Total = o.LineItems[i].LineTotal()
	}
	cp := *o
	cp.LineItems = append([]order.LineItem(nil), o.LineItems...)
	f.byNumber[o.OrderNumber] = cp
	return nil
}

func (f *fakeOrders) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byNumber[number]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOrders) GetByPaymentRef(ctx context.Context, ref string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.byNumber {
		if ref != "" && o.PaymentRef == ref {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range f.sorted() {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListAll(ctx context.Context, limit int) ([]order.Order, error) {
	all := f.sorted()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeOrders) sorted() []order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]order.Order, 0, len(f.byNumber))
	for _, o := range f.byNumber {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out
}

func (f *fakeOrders) MarkPaid(ctx context.Context, ref string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for n, o := range f.byNumber {
		if ref != "" && o.PaymentRef == ref {
			if o.Paid {
				return false, nil
			}
			o.Paid = true
			f.byNumber[n] = o
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrders) HasPaidOrderWithCode(ctx context.Context, userID, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.byNumber {
		if o.UserID == userID && o.Paid && o.DiscountCode == code {
			return true, nil
		}
	}
	return false, nil
}

type fakeProcessor struct {
	err      error
	amounts  []int64
	currency string
}

func (f *fakeProcessor) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (payment.Intent, error) {
	if f.err != nil {
		return payment.Intent{}, f.err
	}
	f.amounts = append(f.amounts, amountCents)
	f.currency = currency
	return payment.Intent{ID: "pi_test", ClientSecret: "pi_test_secret_abc"}, nil
}

type fakeEvents struct {
	placed []string
	paid   []string
}

func (f *fakeEvents) PublishOrderPlaced(ctx context.Context, o order.Order) error {
	f.placed = append(f.placed, o.OrderNumber)
	return nil
}

func (f *fakeEvents) PublishOrderPaid(ctx context.Context, o order.Order) error {
	f.paid = append(f.paid, o.OrderNumber)
	return nil
}

type fakeProfiles struct {
	byUser    map[string]profile.Profile
	upsertErr error
}

func (f *fakeProfiles) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, p profile.Profile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.byUser[p.UserID] = p
	return nil
}
