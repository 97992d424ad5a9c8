// Package checkout drives a customer's session from bag to order: bag mutations,
// priced views, the welcome discount, payment intents, order confirmation and the
// payment relay.
package checkout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payment"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/profile"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

var (
	ErrEmptyBag        = errors.New("bag is empty")
	ErrForbidden       = errors.New("not allowed")
	ErrUnauthenticated = errors.New("sign in required")
)

// PaymentUnavailableWarning is returned instead of an intent when the processor fails.
const PaymentUnavailableWarning = "Payment is temporarily unavailable. You can still place your order."

// Customer is the caller as identified upstream. UserID is empty for guests.
type Customer struct {
	SessionID string
	UserID    string
	Staff     bool
}

// CanView reports whether the customer may see o: staff or the order's owner.
func (c Customer) CanView(o order.Order) bool {
	if c.Staff {
		return true
	}
	return c.UserID != "" && o.UserID == c.UserID
}

// placed reports whether o was confirmed by this customer from this session.
func (c Customer) placed(o order.Order) bool {
	return o.SessionID != "" && o.SessionID == c.SessionID && o.UserID == c.UserID
}

// OrderEvents publishes order lifecycle events.
type OrderEvents interface {
	PublishOrderPlaced(ctx context.Context, o order.Order) error
	PublishOrderPaid(ctx context.Context, o order.Order) error
}

type nopEvents struct{}

func (nopEvents) PublishOrderPlaced(context.Context, order.Order) error { return nil }
func (nopEvents) PublishOrderPaid(context.Context, order.Order) error   { return nil }

type Config struct {
	Currency   string
	DepositSKU string
	// ListLimit caps the staff order listing.
	ListLimit int
}

type Service struct {
	sessions session.Store
	catalog  catalog.Repository
	engine   *pricing.Engine
	policy   *discount.Policy
	orders   order.Repository
	payments payment.Processor
	events   OrderEvents
	profiles profile.Repository
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

type Deps struct {
	Sessions session.Store
	Catalog  catalog.Repository
	Orders   order.Repository
	Payments payment.Processor
	Events   OrderEvents
	// Profiles is optional; without it saved delivery defaults are disabled.
	Profiles profile.Repository
	Logger   *zap.Logger
}

func NewService(d Deps, cfg Config) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "eur"
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}
	if d.Payments == nil {
		d.Payments = payment.Disabled{}
	}
	if d.Events == nil {
		d.Events = nopEvents{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	policy := discount.NewPolicy(d.Orders)
	return &Service{
		sessions: d.Sessions,
		catalog:  d.Catalog,
		engine:   pricing.NewEngine(d.Catalog, policy),
		policy:   policy,
		orders:   d.Orders,
		payments: d.Payments,
		events:   d.Events,
		profiles: d.Profiles,
		cfg:      cfg,
		logger:   d.Logger,
		now:      time.Now,
	}
}

// View is a priced bag plus notices queued for the customer since the last view.
type View struct {
	pricing.Summary
	Notices []string `json:"notices,omitempty"`
}
