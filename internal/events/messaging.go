package events

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange             = "storefront.events"
	OrderPlacedRoutingKey      = "order.placed.v1"
	OrderPaidRoutingKey        = "order.paid.v1"
	PaymentSucceededRoutingKey = "payment.succeeded.v1"
	ServiceName                = "storefront-go"
)

const (
	EventOrderPlaced      = "OrderPlaced"
	EventOrderPaid        = "OrderPaid"
	EventPaymentSucceeded = "PaymentSucceeded"
)

func serviceQueue(routingKey string) string {
	return ServiceName + "." + routingKey
}

type exchangeDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

func declareEventsExchange(ch exchangeDeclarer) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

func DialRabbit(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}
