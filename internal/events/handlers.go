package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// PaymentRelay marks the order behind a payment reference as paid.
type PaymentRelay interface {
	MarkPaid(ctx context.Context, paymentRef string) error
}

// Checkpoints tracks which payment events a consumer already applied, keyed by
// payment reference. See internal/dedup.
type Checkpoints interface {
	Applied(ctx context.Context, consumer, paymentRef string, seq int64) (bool, error)
	Advance(ctx context.Context, consumer, paymentRef string, seq int64) error
}

// PaymentSucceededHandler relays payment.succeeded events to the order store.
// Sequenced events already applied for the same payment reference are
// acknowledged without being applied again. checkpoints may be nil.
func PaymentSucceededHandler(relay PaymentRelay, checkpoints Checkpoints, logger *zap.Logger) HandlerFunc {
	consumer := serviceQueue(PaymentSucceededRoutingKey)
	return func(ctx context.Context, body []byte) error {
		var env EventEnvelope[PaymentSucceededPayload]
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("unmarshal PaymentSucceeded: %w", err)
		}
		if err := env.Validate(EventPaymentSucceeded, 1); err != nil {
			return fmt.Errorf("invalid PaymentSucceeded: %w", err)
		}
		if env.Payload.PaymentRef == "" {
			return fmt.Errorf("PaymentSucceeded %s has no paymentRef", env.EventID)
		}

		ref := env.Payload.PaymentRef
		sequenced := checkpoints != nil && env.Sequence != nil
		if sequenced {
			applied, err := checkpoints.Applied(ctx, consumer, ref, *env.Sequence)
			if err != nil {
				return fmt.Errorf("load checkpoint: %w", err)
			}
			if applied {
				logger.Debug("duplicate PaymentSucceeded skipped",
					zap.String("event_id", env.EventID),
					zap.String("payment_ref", ref),
					zap.Int64("sequence", *env.Sequence),
				)
				return nil
			}
		}

		ctx = WithCorrelationID(ctx, env.CorrelationID)
		if err := relay.MarkPaid(ctx, ref); err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}

		if sequenced {
			if err := checkpoints.Advance(ctx, consumer, ref, *env.Sequence); err != nil {
				logger.Warn("store checkpoint", zap.String("event_id", env.EventID), zap.Error(err))
			}
		}

		logger.Info("payment relayed",
			zap.String("event_id", env.EventID),
			zap.String("payment_ref", ref),
		)
		return nil
	}
}
