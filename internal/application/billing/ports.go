package billing

import (
	"context"

	"github.com/erp/bills/internal/domain/billing"
)

// IntegrationEventPublisher delivers integration events to other services.
// Implementations must be safe for concurrent use.
type IntegrationEventPublisher interface {
	PublishBillCreated(ctx context.Context, event *billing.BillCreatedEvent) error
}

// MetricsRecorder receives the outcome of bill operations
type MetricsRecorder interface {
	RecordBillCreated(ctx context.Context, currency string)
	RecordBillRejected(ctx context.Context, reason string)
	RecordPublishFailed(ctx context.Context, eventType string)
}

// Rejection reasons passed to MetricsRecorder.RecordBillRejected
const (
	RejectReasonValidation = "validation"
	RejectReasonConflict   = "conflict"
)

type noopMetrics struct{}

func (noopMetrics) RecordBillCreated(context.Context, string)   {}
func (noopMetrics) RecordBillRejected(context.Context, string)  {}
func (noopMetrics) RecordPublishFailed(context.Context, string) {}
