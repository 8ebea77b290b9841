// Package redisstream publishes integration events to a Redis stream.
package redisstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	appbilling "github.com/erp/bills/internal/application/billing"
	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/infrastructure/event"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultStream is the stream bill.created events are appended to
const DefaultStream = "bill-created"

// Stream entry field names
const (
	FieldEventID   = "eventId"
	FieldEventName = "eventName"
	FieldEnvelope  = "envelope"
)

// streamAdder is the subset of redis.Cmdable the publisher needs
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Options configures a Publisher
type Options struct {
	Stream string
	// MaxLen caps the stream length with approximate trimming; 0 keeps everything
	MaxLen         int64
	PublishTimeout time.Duration
}

// Publisher appends bill.created envelopes to a Redis stream with XADD
type Publisher struct {
	client streamAdder
	opts   Options
	logger *zap.Logger
}

// NewPublisher creates a Publisher on an existing Redis client
func NewPublisher(client redis.Cmdable, opts Options, logger *zap.Logger) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return newPublisher(client, opts, logger), nil
}

func newPublisher(client streamAdder, opts Options, logger *zap.Logger) *Publisher {
	if opts.Stream == "" {
		opts.Stream = DefaultStream
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, opts: opts, logger: logger.Named("redis_stream")}
}

// PublishBillCreated implements appbilling.IntegrationEventPublisher
func (p *Publisher) PublishBillCreated(ctx context.Context, evt *billing.BillCreatedEvent) error {
	body, err := event.Marshal(evt)
	if err != nil {
		return err
	}

	if p.opts.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.PublishTimeout)
		defer cancel()
	}

	args := &redis.XAddArgs{
		Stream: p.opts.Stream,
		Values: map[string]any{
			FieldEventID:   evt.EventID().String(),
			FieldEventName: evt.EventType(),
			FieldEnvelope:  string(body),
		},
	}
	if p.opts.MaxLen > 0 {
		args.MaxLen = p.opts.MaxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("xadd %s to stream %s: %w", evt.EventType(), p.opts.Stream, err)
	}

	p.logger.Debug("Published event",
		zap.String("stream", p.opts.Stream),
		zap.String("entry_id", id),
		zap.String("event_id", evt.EventID().String()),
		zap.Int64("bill_id", evt.BillID))
	return nil
}

var _ appbilling.IntegrationEventPublisher = (*Publisher)(nil)
