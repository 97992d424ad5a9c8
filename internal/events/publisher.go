package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Sequencer numbers events per order. See internal/sequence.
type Sequencer interface {
	Next(ctx context.Context, orderNumber string) (int64, error)
}

type Publisher struct {
	ch       Channel
	producer string
	seq      Sequencer
	now      func() time.Time
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return NewPublisherWithChannel(ch)
}

func NewPublisherWithChannel(ch Channel) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &Publisher{ch: ch, producer: ServiceName, now: time.Now}, nil
}

// WithSequencer stamps every published envelope with the next sequence number
// of its order.
func (p *Publisher) WithSequencer(seq Sequencer) *Publisher {
	p.seq = seq
	return p
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o order.Order) error {
	env := newEnvelope(ctx, EventOrderPlaced, p.producer, o.OrderNumber, orderPlacedPayload(o), p.now())
	if err := p.stamp(ctx, o.OrderNumber, &env.Sequence); err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}
	return p.publishJSON(ctx, OrderPlacedRoutingKey, body)
}

func (p *Publisher) PublishOrderPaid(ctx context.Context, o order.Order) error {
	payload := OrderPaidPayload{OrderNumber: o.OrderNumber, UserID: o.UserID, PaymentRef: o.PaymentRef}
	env := newEnvelope(ctx, EventOrderPaid, p.producer, o.OrderNumber, payload, p.now())
	if err := p.stamp(ctx, o.OrderNumber, &env.Sequence); err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPaid: %w", err)
	}
	return p.publishJSON(ctx, OrderPaidRoutingKey, body)
}

func (p *Publisher) stamp(ctx context.Context, orderNumber string, dst **int64) error {
	if p.seq == nil {
		return nil
	}
	n, err := p.seq.Next(ctx, orderNumber)
	if err != nil {
		return fmt.Errorf("sequence event: %w", err)
	}
	*dst = &n
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// NopPublisher drops events. Used when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, order.Order) error { return nil }
func (NopPublisher) PublishOrderPaid(context.Context, order.Order) error   { return nil }
