// Package queue_publisher publishes box office sales events to RabbitMQ.
// Errors are logged and returned so the box office can ignore failures
// without interrupting a sale or a refund.
package queue_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/box-office/internal/queue"
)

// dialTimeout bounds the TCP connect and the AMQP handshake.  Publishing
// runs inside buy and refund, so an unreachable broker must fail fast.
const dialTimeout = 2 * time.Second

// AMQPPublisher dials the broker for every event.  Sales are rare enough
// that a long-lived connection is not worth its reconnect handling.
type AMQPPublisher struct {
	url         string
	dialTimeout time.Duration
	zaplog      *zap.Logger
}

func NewAMQPPublisher(url string, zaplog *zap.Logger) *AMQPPublisher {
	if zaplog == nil {
		zaplog = zap.NewNop()
	}
	return &AMQPPublisher{url: url, dialTimeout: dialTimeout, zaplog: zaplog}
}

// dial connects with a deadline of dialTimeout, or earlier when ctx
// expires first.
func (p *AMQPPublisher) dial(ctx context.Context) (*amqp.Connection, error) {
	timeout := p.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}

// PublishTicketSold publishes event to the ticket.sold queue.
func (p *AMQPPublisher) PublishTicketSold(ctx context.Context, event q.TicketSoldEvent) error {
	return p.publish(ctx, q.TicketSoldQueue, event)
}

// PublishTicketRefunded publishes event to the ticket.refunded queue.
func (p *AMQPPublisher) PublishTicketRefunded(ctx context.Context, event q.TicketRefundedEvent) error {
	return p.publish(ctx, q.TicketRefundedQueue, event)
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.zaplog.Error("rabbitmq: marshal event failed", zap.String("queue", queue), zap.Error(err))
		return err
	}

	conn, err := p.dial(ctx)
	if err != nil {
		p.zaplog.Warn("rabbitmq: dial failed", zap.Error(err))
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.zaplog.Warn("rabbitmq: channel open failed", zap.Error(err))
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		p.zaplog.Warn("rabbitmq: queue declare failed", zap.String("queue", queue), zap.Error(err))
		return fmt.Errorf("queue declare: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.zaplog.Warn("rabbitmq: publish failed", zap.String("queue", queue), zap.Error(err))
		return fmt.Errorf("publish: %w", err)
	}
	p.zaplog.Debug("rabbitmq: event published", zap.String("queue", queue))
	return nil
}
