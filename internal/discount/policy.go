package discount

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// WelcomeCode is the only promotional code the store honours.
const WelcomeCode = "WELCOME10"

var (
	ErrEmptyCode   = errors.New("discount code is empty")
	ErrEmptyBag    = errors.New("bag is empty")
	ErrUnknownCode = errors.New("discount code is invalid")
	ErrAlreadyUsed = errors.New("discount code already used")
)

// RejectionError explains why a code was not applied. It unwraps to one of the
// sentinel errors above.
type RejectionError struct {
	Code    string
	Reason  error
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("discount %q rejected: %v", e.Code, e.Reason)
}

func (e *RejectionError) Unwrap() error { return e.Reason }

// UsageChecker reports whether a customer already paid an order using code.
type UsageChecker interface {
	HasPaidOrderWithCode(ctx context.Context, userID, code string) (bool, error)
}

type Policy struct {
	rates map[string]decimal.Decimal
	usage UsageChecker
}

func NewPolicy(usage UsageChecker) *Policy {
	return &Policy{
		rates: map[string]decimal.Decimal{
			WelcomeCode: decimal.RequireFromString("0.10"),
		},
		usage: usage,
	}
}

// Normalize trims and upper-cases a submitted code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Amount is round(subtotal × rate, 2) for a known code and zero otherwise.
// It is recomputed from the live subtotal on every call.
func (p *Policy) Amount(code string, subtotal decimal.Decimal) decimal.Decimal {
	rate, ok := p.rates[Normalize(code)]
	if !ok || subtotal.Sign() <= 0 {
		return decimal.Zero
	}
	return subtotal.Mul(rate).Round(2)
}

// Eligible reports whether code may still be used by userID. Anonymous customers
// have no order history and are always eligible.
func (p *Policy) Eligible(ctx context.Context, code, userID string) (bool, error) {
	code = Normalize(code)
	if code != WelcomeCode || userID == "" || p.usage == nil {
		return true, nil
	}
	used, err := p.usage.HasPaidOrderWithCode(ctx, userID, code)
	if err != nil {
		return false, fmt.Errorf("check discount usage: %w", err)
	}
	return !used, nil
}

// Validate checks a freshly submitted code against the current bag. A nil error
// means the code may be stored on the session.
func (p *Policy) Validate(ctx context.Context, code string, itemCount int, subtotal decimal.Decimal, userID string) error {
	code = Normalize(code)
	if code == "" {
		return &RejectionError{Code: code, Reason: ErrEmptyCode, Message: "Please enter a discount code."}
	}
	if itemCount == 0 {
		return &RejectionError{Code: code, Reason: ErrEmptyBag, Message: "This code is invalid or your bag is empty."}
	}
	if p.Amount(code, subtotal).Sign() <= 0 {
		return &RejectionError{Code: code, Reason: ErrUnknownCode, Message: "This code is invalid or your bag is empty."}
	}

	ok, err := p.Eligible(ctx, code, userID)
	if err != nil {
		return err
	}
	if !ok {
		return &RejectionError{Code: code, Reason: ErrAlreadyUsed, Message: UsedNotice(code)}
	}
	return nil
}

// UsedNotice is shown once when a stored code turns out to be consumed already.
func UsedNotice(code string) string {
	return code + " has already been used on your account and has been removed from this checkout."
}
