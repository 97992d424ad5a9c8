// Package payment talks to the card processor: it creates payment intents and
// verifies the processor's webhook notifications.
package payment

import (
	"context"
	"errors"
	"strings"
)

var ErrUnavailable = errors.New("payment processor unavailable")

// Intent is a processor-side payment for an amount. ID is the payment reference
// stored on the order.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

type Processor interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (Intent, error)
}

// RefFromClientSecret extracts the intent id from a client secret of the form
// "pi_123_secret_abc".
func RefFromClientSecret(secret string) string {
	ref, _, _ := strings.Cut(secret, "_secret")
	return ref
}

// Disabled is used when no processor credentials are configured.
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, int64, string, map[string]string) (Intent, error) {
	return Intent{}, ErrUnavailable
}
