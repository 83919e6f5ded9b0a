package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends a JSON payload to a named queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

// defaultDialTimeout bounds a broker dial when ctx carries no deadline.
const defaultDialTimeout = 5 * time.Second

// AMQPPublisher publishes persistent JSON messages to durable queues on the
// default exchange. It dials per message; registration traffic is low.
type AMQPPublisher struct {
	url string
	log *logrus.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, log *logrus.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, log: log}
}

// Publish declares queue (idempotent) and sends payload to it.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, payload any) error {
	log := p.log.WithContext(ctx).WithField("queue", queue)

	timeout := defaultDialTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		log.WithError(err).Warn("rabbitmq dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq channel open failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		log.WithError(err).Warn("rabbitmq queue declare failed")
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	msg, err := NewMessage(payload)
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		log.WithError(err).Warn("rabbitmq publish failed")
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// NewMessage wraps payload in a persistent JSON publishing.
func NewMessage(payload any) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}, nil
}

// NopPublisher discards every message. It stands in when no broker is
// configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// AsyncPublisher hands each message to next on its own goroutine, so the
// caller never waits on the broker. Failures are logged.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	log     *logrus.Logger
	wg      sync.WaitGroup
}

// NewAsyncPublisher wraps next; each publish gets timeout to complete.
func NewAsyncPublisher(next Publisher, timeout time.Duration, log *logrus.Logger) *AsyncPublisher {
	return &AsyncPublisher{next: next, timeout: timeout, log: log}
}

// Publish schedules the message and returns immediately. The request
// context's values are kept but its cancellation is not.
func (p *AsyncPublisher) Publish(ctx context.Context, queue string, payload any) error {
	ctx = context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		if err := p.next.Publish(ctx, queue, payload); err != nil {
			p.log.WithContext(ctx).WithError(err).WithField("queue", queue).Warn("event dropped")
		}
	}()
	return nil
}

// Wait blocks until every scheduled publish has finished.
func (p *AsyncPublisher) Wait() { p.wg.Wait() }
