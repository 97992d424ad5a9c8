package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, nil)}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

var ErrInvalidSignature = errors.New("invalid webhook signature")

const EventPaymentSucceeded = "payment_intent.succeeded"

// WebhookEvent is the part of a processor notification the store acts on.
type WebhookEvent struct {
	ID         string
	Type       string
	PaymentRef string
}

func (e WebhookEvent) Succeeded() bool {
	return e.Type == EventPaymentSucceeded && e.PaymentRef != ""
}

// StripeWebhook verifies Stripe-Signature headers against the endpoint secret.
type StripeWebhook struct {
	secret string
}

func NewStripeWebhook(secret string) *StripeWebhook {
	return &StripeWebhook{secret: secret}
}

// Enabled is false when no endpoint secret is configured; notifications are then
// acknowledged without being processed.
func (w *StripeWebhook) Enabled() bool { return w != nil && w.secret != "" }

func (w *StripeWebhook) Parse(payload []byte, signature string) (WebhookEvent, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, w.secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := WebhookEvent{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventPaymentSucceeded {
		return out, nil
	}

	var intent struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(ev.Data.Raw, &intent); err != nil {
		return WebhookEvent{}, fmt.Errorf("decode payment intent: %w", err)
	}
	out.PaymentRef = intent.ID
	return out, nil
}
