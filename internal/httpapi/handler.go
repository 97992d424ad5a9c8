package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payment"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const requestTimeout = 5 * time.Second

// Storefront is the checkout surface the handlers drive. *checkout.Service
// implements it.
type Storefront interface {
	PriceBag(ctx context.Context, c checkout.Customer) (checkout.View, error)
	AddItem(ctx context.Context, c checkout.Customer, productID int64, optionID *int64, qty int) (checkout.LineUpdate, error)
	SetItem(ctx context.Context, c checkout.Customer, productID int64, optionID *int64, qty int) (checkout.LineUpdate, error)
	RemoveItem(ctx context.Context, c checkout.Customer, productID int64, optionID *int64) error
	ApplyDiscount(ctx context.Context, c checkout.Customer, code string) (checkout.View, error)
	RemoveDiscount(ctx context.Context, c checkout.Customer) error
	CreatePaymentIntent(ctx context.Context, c checkout.Customer) (checkout.PaymentIntent, error)
	ConfirmOrder(ctx context.Context, c checkout.Customer, shipping order.ShippingDetails, paymentRef string, saveInfo bool) (order.Order, error)
	CheckoutDefaults(ctx context.Context, c checkout.Customer) (order.ShippingDetails, error)
	GetOrder(ctx context.Context, c checkout.Customer, orderNumber string) (order.Order, error)
	ListOrders(ctx context.Context, c checkout.Customer) ([]order.Order, error)
	MarkPaid(ctx context.Context, paymentRef string) error
}

type WebhookParser interface {
	Enabled() bool
	Parse(payload []byte, signature string) (payment.WebhookEvent, error)
}

type Handler struct {
	svc       Storefront
	webhook   WebhookParser
	publicKey string
	service   string
	logger    *zap.Logger
}

type Options struct {
	Webhook WebhookParser
	// PublicKey is handed to clients alongside a payment intent.
	PublicKey   string
	ServiceName string
	Logger      *zap.Logger
}

func NewHandler(svc Storefront, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "storefront"
	}
	return &Handler{
		svc:       svc,
		webhook:   opts.Webhook,
		publicKey: opts.PublicKey,
		service:   opts.ServiceName,
		logger:    opts.Logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": h.service})
}

// fail maps service errors onto status codes. Unexpected errors are logged and
// reported as 500 without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var rej *discount.RejectionError
	switch {
	case errors.As(err, &rej):
		writeError(w, http.StatusUnprocessableEntity, rej.Message)
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, checkout.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, checkout.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrNoSession):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrEmptyBag), errors.Is(err, order.ErrInvalidShipping):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
