package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one message body. A returned error nacks the message.
type HandlerFunc func(ctx context.Context, body []byte) error

// StartConsumer binds a durable service queue to routingKey on the events exchange
// and dispatches deliveries to handler until ctx is cancelled.
func StartConsumer(ctx context.Context, conn *amqp.Connection, routingKey string, handler HandlerFunc, logger *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return fmt.Errorf("declare events exchange: %w", err)
	}

	queue := serviceQueue(routingKey)
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(queue, routingKey, EventsExchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(queue, ServiceName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	log := logger.With(zap.String("queue", queue))
	go func() {
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				log.Info("stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Warn("deliveries channel closed")
					return
				}
				if err := handler(ctx, msg.Body); err != nil {
					log.Error("handle message", zap.Error(err))
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}
