package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/bag"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payment"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/profile"
)

// PaymentIntent is what the checkout page needs to collect payment. When the
// processor is unavailable Intent is empty and Warning is set.
type PaymentIntent struct {
	View
	Intent   payment.Intent `json:"intent"`
	Currency string         `json:"currency"`
	Warning  string         `json:"warning,omitempty"`
}

// CreatePaymentIntent asks the processor for an intent over the grand total.
// Processor failures degrade to a warning so the order can still be placed.
func (s *Service) CreatePaymentIntent(ctx context.Context, c Customer) (PaymentIntent, error) {
	_, v, err := s.price(ctx, c)
	if err != nil {
		return PaymentIntent{}, err
	}
	if v.ItemCount == 0 {
		return PaymentIntent{}, ErrEmptyBag
	}

	out := PaymentIntent{View: v, Currency: s.cfg.Currency}
	meta := map[string]string{"session_id": c.SessionID}
	if c.UserID != "" {
		meta["user_id"] = c.UserID
	}
	if v.DiscountCode != "" {
		meta["discount_code"] = v.DiscountCode
	}

	amount := v.AmountCents()
	if amount <= 0 {
		// Nothing to charge; the order is confirmed without a payment reference.
		return out, nil
	}

	intent, err := s.payments.CreateIntent(ctx, amount, s.cfg.Currency, meta)
	if err != nil {
		s.logger.Warn("payment intent unavailable", zap.Error(err))
		out.Warning = PaymentUnavailableWarning
		return out, nil
	}
	out.Intent = intent
	return out, nil
}

// ConfirmOrder snapshots the priced bag into an order and clears the bag and
// discount. One order exists per payment reference: a retry with a known
// reference returns the existing order. With saveInfo a registered customer's
// delivery details become their checkout defaults.
func (s *Service) ConfirmOrder(ctx context.Context, c Customer, shipping order.ShippingDetails, paymentRef string, saveInfo bool) (order.Order, error) {
	if err := shipping.Validate(); err != nil {
		return order.Order{}, err
	}

	existing, err := s.existingOrder(ctx, c, paymentRef)
	if err != nil {
		return order.Order{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	st, v, err := s.price(ctx, c)
	if err != nil {
		return order.Order{}, err
	}
	if v.ItemCount == 0 {
		return order.Order{}, ErrEmptyBag
	}

	o, err := order.Materialize(c.UserID, shipping, st.Bag, v.Summary, paymentRef, s.now())
	if err != nil {
		return order.Order{}, err
	}

	o.SessionID = c.SessionID

	if err := s.orders.Create(ctx, &o); err != nil {
		if errors.Is(err, order.ErrDuplicatePaymentRef) {
			existing, lookupErr := s.existingOrder(ctx, c, paymentRef)
			if errors.Is(lookupErr, ErrForbidden) {
				return order.Order{}, lookupErr
			}
			if lookupErr != nil || existing == nil {
				return order.Order{}, fmt.Errorf("create order: %w", err)
			}
			return *existing, nil
		}
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}

	if saveInfo {
		s.saveDefaults(ctx, c, shipping)
	}

	st.Bag = bag.New()
	st.DiscountCode = ""
	if err := s.sessions.Save(ctx, c.SessionID, st); err != nil {
		return order.Order{}, fmt.Errorf("clear bag: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.String("user_id", o.UserID),
		zap.String("payment_ref", o.PaymentRef),
		zap.String("grand_total", o.GrandTotal().StringFixed(2)),
	)
	if err := s.events.PublishOrderPlaced(ctx, o); err != nil {
		s.logger.Warn("publish OrderPlaced", zap.String("order_number", o.OrderNumber), zap.Error(err))
	}
	return o, nil
}

// existingOrder returns the order already created for paymentRef, clearing the
// session bag the first attempt may have left behind. Only the session and user
// that placed the order get it back; anyone else gets ErrForbidden and keeps
// their bag.
func (s *Service) existingOrder(ctx context.Context, c Customer, paymentRef string) (*order.Order, error) {
	if paymentRef == "" {
		return nil, nil
	}
	o, err := s.orders.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		return nil, fmt.Errorf("lookup order by payment ref: %w", err)
	}
	if o == nil {
		return nil, nil
	}
	if !c.placed(*o) {
		return nil, ErrForbidden
	}
	if err := s.sessions.Clear(ctx, c.SessionID); err != nil {
		return nil, err
	}
	return o, nil
}

// saveDefaults stores shipping as the customer's profile. Guests have no
// profile. Failures are logged; the order already exists.
func (s *Service) saveDefaults(ctx context.Context, c Customer, shipping order.ShippingDetails) {
	if s.profiles == nil || c.UserID == "" {
		return
	}
	if err := s.profiles.Upsert(ctx, profile.FromShipping(c.UserID, shipping)); err != nil {
		s.logger.Warn("save checkout defaults", zap.String("user_id", c.UserID), zap.Error(err))
	}
}

// CheckoutDefaults returns the saved delivery details used to prefill the
// checkout form. Guests and customers without a profile get empty details.
func (s *Service) CheckoutDefaults(ctx context.Context, c Customer) (order.ShippingDetails, error) {
	if s.profiles == nil || c.UserID == "" {
		return order.ShippingDetails{}, nil
	}
	p, err := s.profiles.Get(ctx, c.UserID)
	if err != nil {
		return order.ShippingDetails{}, err
	}
	if p == nil {
		return order.ShippingDetails{}, nil
	}
	return p.Shipping(), nil
}

// GetOrder returns an order to its owner or to staff.
func (s *Service) GetOrder(ctx context.Context, c Customer, orderNumber string) (order.Order, error) {
	o, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return order.Order{}, err
	}
	if o == nil {
		return order.Order{}, order.ErrNotFound
	}
	if !c.CanView(*o) {
		return order.Order{}, ErrForbidden
	}
	return *o, nil
}

// ListOrders returns every order for staff and the customer's own orders otherwise.
func (s *Service) ListOrders(ctx context.Context, c Customer) ([]order.Order, error) {
	if c.Staff {
		return s.orders.ListAll(ctx, s.cfg.ListLimit)
	}
	if c.UserID == "" {
		return nil, ErrUnauthenticated
	}
	return s.orders.ListByUser(ctx, c.UserID)
}

// MarkPaid flags the order for paymentRef as paid. Unknown and already paid
// references are no-ops.
func (s *Service) MarkPaid(ctx context.Context, paymentRef string) error {
	changed, err := s.orders.MarkPaid(ctx, paymentRef)
	if err != nil {
		return err
	}
	if !changed {
		s.logger.Debug("mark paid no-op", zap.String("payment_ref", paymentRef))
		return nil
	}

	s.logger.Info("order paid", zap.String("payment_ref", paymentRef))
	o, err := s.orders.GetByPaymentRef(ctx, paymentRef)
	if err != nil || o == nil {
		s.logger.Warn("load paid order", zap.String("payment_ref", paymentRef), zap.Error(err))
		return nil
	}
	if err := s.events.PublishOrderPaid(ctx, *o); err != nil {
		s.logger.Warn("publish OrderPaid", zap.String("payment_ref", paymentRef), zap.Error(err))
	}
	return nil
}
