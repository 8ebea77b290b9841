// Package rabbitmq publishes integration events to a durable RabbitMQ queue.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appbilling "github.com/erp/bills/internal/application/billing"
	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/infrastructure/event"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultQueue is the queue bill.created events are routed to
const DefaultQueue = "bill-created"

// ErrClosed is returned when publishing on a closed publisher
var ErrClosed = errors.New("rabbitmq publisher closed")

// Options configures a Publisher
type Options struct {
	URL            string
	Queue          string
	PublishTimeout time.Duration
}

// connection and channel are the subset of amqp091 the publisher needs
type connection interface {
	Channel() (channel, error)
	IsClosed() bool
	Close() error
}

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// dialFunc opens a broker connection
type dialFunc func(url string) (connection, error)

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func dialAMQP(url string) (connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

// Publisher sends bill.created envelopes to the default exchange, routed by
// queue name. The connection is re-established lazily when it drops.
type Publisher struct {
	opts   Options
	dial   dialFunc
	logger *zap.Logger
	clock  func() time.Time

	mu     sync.Mutex
	conn   connection
	ch     channel
	closed bool
}

// NewPublisher connects to the broker and declares the queue
func NewPublisher(opts Options, logger *zap.Logger) (*Publisher, error) {
	return newPublisher(opts, dialAMQP, logger)
}

func newPublisher(opts Options, dial dialFunc, logger *zap.Logger) (*Publisher, error) {
	if opts.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if opts.Queue == "" {
		opts.Queue = DefaultQueue
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Publisher{
		opts:   opts,
		dial:   dial,
		logger: logger.Named("rabbitmq"),
		clock:  time.Now,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureChannel(); err != nil {
		return nil, err
	}
	return p, nil
}

// PublishBillCreated implements appbilling.IntegrationEventPublisher
func (p *Publisher) PublishBillCreated(ctx context.Context, evt *billing.BillCreatedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := event.Marshal(evt)
	if err != nil {
		return err
	}

	if p.opts.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.PublishTimeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if err := p.ensureChannel(); err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, "", p.opts.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.EventID().String(),
		Type:         evt.EventType(),
		Timestamp:    p.clock().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s to queue %s: %w", evt.EventType(), p.opts.Queue, err)
	}

	p.logger.Debug("Published event",
		zap.String("queue", p.opts.Queue),
		zap.String("event_id", evt.EventID().String()),
		zap.Int64("bill_id", evt.BillID))
	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	return p.reset()
}

// ensureChannel reconnects when the connection or channel has dropped.
// Caller must hold p.mu.
func (p *Publisher) ensureChannel() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	if p.conn != nil {
		p.logger.Warn("RabbitMQ connection lost, reconnecting")
	}
	_ = p.reset()

	conn, err := p.dial(p.opts.URL)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.opts.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue %s: %w", p.opts.Queue, err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

// reset drops the current channel and connection. Caller must hold p.mu.
func (p *Publisher) reset() error {
	var errs []error
	if p.ch != nil {
		if !p.ch.IsClosed() {
			errs = append(errs, p.ch.Close())
		}
		p.ch = nil
	}
	if p.conn != nil {
		if !p.conn.IsClosed() {
			errs = append(errs, p.conn.Close())
		}
		p.conn = nil
	}
	return errors.Join(errs...)
}

var _ appbilling.IntegrationEventPublisher = (*Publisher)(nil)
