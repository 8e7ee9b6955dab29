package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// AMQPPublisher sends drifts as persistent JSON messages to a direct exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

func NewAMQPPublisher(url, exchange, queue string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &AMQPPublisher{conn: conn, channel: channel, exchange: exchange, queue: queue}

	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return p, nil
}

func (p *AMQPPublisher) setup() error {
	if err := p.channel.ExchangeDeclare(p.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := p.channel.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name.
	if err := p.channel.QueueBind(p.queue, p.queue, p.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (p *AMQPPublisher) PublishDrift(ctx context.Context, d Drift) error {
	body, err := encode(d)
	if err != nil {
		return fmt.Errorf("marshal drift: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, p.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    d.DetectedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish drift: %w", err)
	}

	slog.InfoContext(ctx, "published drift alert", "wallet_id", d.WalletID, "exchange", p.exchange)

	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}

	if p.conn != nil {
		return p.conn.Close()
	}

	return nil
}
