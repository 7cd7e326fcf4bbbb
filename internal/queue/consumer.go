package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SalesLogFile is the file, inside the sales log directory, the consumer
// appends to.
const SalesLogFile = "sales.log"

const maxBackoff = 30 * time.Second

// StartSalesConsumer connects to RabbitMQ, declares the ticket.sold and
// ticket.refunded queues (durable), and appends one line per message to
// dir/sales.log.  It reconnects with exponential backoff and returns only
// when ctx is cancelled.  Malformed messages are rejected without requeue so
// the consumer keeps running.
func StartSalesConsumer(ctx context.Context, url, dir string, zaplog *zap.Logger) error {
	if zaplog == nil {
		zaplog = zap.NewNop()
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			zaplog.Warn("sales-consumer: failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second // reset after successful connect
		zaplog.Info("sales-consumer: connected")

		err = consumeLoop(ctx, conn, dir, zaplog)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		zaplog.Warn("sales-consumer: consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

// sleep waits for d or until ctx is done.  It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string, zaplog *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		zaplog.Warn("sales-consumer: set QoS failed", zap.Error(err))
	}

	sold, err := declareAndConsume(ch, TicketSoldQueue)
	if err != nil {
		return err
	}
	refunded, err := declareAndConsume(ch, TicketRefundedQueue)
	if err != nil {
		return err
	}

	for {
		var (
			d     amqp.Delivery
			ok    bool
			queue string
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-sold:
			queue = TicketSoldQueue
		case d, ok = <-refunded:
			queue = TicketRefundedQueue
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}

		if err := handleMessage(dir, queue, d.Body); err != nil {
			zaplog.Error("sales-consumer: handle message failed", zap.String("queue", queue), zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

func declareAndConsume(ch *amqp.Channel, queue string) (<-chan amqp.Delivery, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("queue declare %s: %w", queue, err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("queue consume %s: %w", queue, err)
	}
	return msgs, nil
}

// handleMessage decodes body according to its queue and appends the
// formatted line to the sales log.
func handleMessage(dir, queue string, body []byte) error {
	line, err := formatLine(queue, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, SalesLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(queue string, body []byte) (string, error) {
	switch queue {
	case TicketSoldQueue:
		var ev TicketSoldEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		if ev.Serial == "" {
			return "", errors.New("ticket sold event without serial")
		}
		return fmt.Sprintf("[%s] Ticket sold | serial=%s | date=%s | period=%s | auditorium=%s | tier=%s\n",
			ev.SoldAt, ev.Serial, ev.Date, ev.Period, ev.Auditorium, ev.Tier), nil
	case TicketRefundedQueue:
		var ev TicketRefundedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		if ev.Serial == "" {
			return "", errors.New("ticket refunded event without serial")
		}
		return fmt.Sprintf("[%s] Ticket refunded | serial=%s | date=%s | period=%s | auditorium=%s | refund=%s\n",
			ev.RefundedAt, ev.Serial, ev.Date, ev.Period, ev.Auditorium, ev.RefundValue), nil
	default:
		return "", fmt.Errorf("unknown queue %q", queue)
	}
}
