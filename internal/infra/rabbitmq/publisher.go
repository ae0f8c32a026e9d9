package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	channel  *amqp.Channel
	exchange string
}

// NewPublisher opens a channel and declares exchange as a durable topic
// exchange so a fresh broker accepts the first publish.
func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{channel: ch, exchange: exchange}, nil
}

func (p *Publisher) Close() error {
	return p.channel.Close()
}

type RunPublisher struct {
	pub        *Publisher
	routingKey string
}

func NewRunPublisher(pub *Publisher, routingKey string) *RunPublisher {
	return &RunPublisher{pub: pub, routingKey: routingKey}
}

func (rp *RunPublisher) PublishRun(ctx context.Context, msg []byte) error {
	err := rp.pub.channel.PublishWithContext(ctx,
		rp.pub.exchange,
		rp.routingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish run: %w", err)
	}
	return nil
}
