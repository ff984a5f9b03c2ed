package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pkordes/medtransport/internal/domain"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes trip events to a topic exchange with routing key
// "trip.<action>", e.g. "trip.start".
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// DialAMQP connects to url and declares exchange as a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events.DialAMQP: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events.DialAMQP: channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("events.DialAMQP: declare %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish implements service.EventPublisher.
func (p *AMQPPublisher) Publish(ctx context.Context, ev domain.TripEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events.AMQPPublisher.Publish: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(ev), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("events.AMQPPublisher.Publish: %w", err)
	}
	return nil
}

// Close closes the channel and then the connection.
func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return fmt.Errorf("events.AMQPPublisher.Close: %w", err)
	}
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// RoutingKey returns the topic routing key for ev.
func RoutingKey(ev domain.TripEvent) string {
	return "trip." + string(ev.Action)
}
