package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher writes persistent JSON messages to a durable queue through
// the default exchange. A channel is not safe for concurrent publishes, so
// calls are serialized.
type AMQPPublisher struct {
	mu     sync.Mutex
	ch     channel
	queue  string
	logger *slog.Logger
	close  func() error
}

// DialAMQP connects to the broker and declares queue as durable.
func DialAMQP(url, queue string, log *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare %s queue: %w", queue, err)
	}

	p := newAMQPPublisher(ch, q.Name, log)
	p.close = func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return p, nil
}

func newAMQPPublisher(ch channel, queue string, log *slog.Logger) *AMQPPublisher {
	if log == nil {
		log = logger.Discard()
	}
	return &AMQPPublisher{ch: ch, queue: queue, logger: log, close: func() error { return nil }}
}

func (p *AMQPPublisher) PublishOrderPlaced(ctx context.Context, o *domain.Order) error {
	body, err := json.Marshal(NewOrderPlaced(o))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    o.OrderID,
		Timestamp:    time.Now().UTC(),
		Type:         "order.placed",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", o.OrderID, err)
	}
	p.logger.Info("events: order placed published", "order_id", o.OrderID, "queue", p.queue, "items", len(o.Items))
	return nil
}

func (p *AMQPPublisher) Close() error {
	return p.close()
}
