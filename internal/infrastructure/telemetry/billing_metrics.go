package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Billing metric names
const (
	MetricBillsCreated        = "bills_created_total"
	MetricBillsRejected       = "bills_rejected_total"
	MetricEventsPublishFailed = "events_publish_failed_total"
	MetricHTTPRequestDuration = "http_server_request_duration_seconds"
)

// BillingMetrics records bill issuance outcomes.
// It satisfies the application's MetricsRecorder port.
type BillingMetrics struct {
	created       *Counter
	rejected      *Counter
	publishFailed *Counter
}

// NewBillingMetrics creates the billing counters on meter
func NewBillingMetrics(meter metric.Meter) (*BillingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	created, err := NewCounter(meter, MetricBillsCreated, "Bills committed to storage", "{bill}")
	if err != nil {
		return nil, err
	}
	rejected, err := NewCounter(meter, MetricBillsRejected, "Bill requests rejected before commit", "{bill}")
	if err != nil {
		return nil, err
	}
	publishFailed, err := NewCounter(meter, MetricEventsPublishFailed, "Integration events that could not be published", "{event}")
	if err != nil {
		return nil, err
	}

	return &BillingMetrics{created: created, rejected: rejected, publishFailed: publishFailed}, nil
}

// RecordBillCreated counts a committed bill by currency
func (m *BillingMetrics) RecordBillCreated(ctx context.Context, currency string) {
	m.created.Inc(ctx, AttrCurrency.String(currency))
}

// RecordBillRejected counts a rejected request by reason
func (m *BillingMetrics) RecordBillRejected(ctx context.Context, reason string) {
	m.rejected.Inc(ctx, AttrRejectReason.String(reason))
}

// RecordPublishFailed counts an event that failed to publish
func (m *BillingMetrics) RecordPublishFailed(ctx context.Context, eventType string) {
	m.publishFailed.Inc(ctx, AttrEventType.String(eventType))
}

// HTTPMetrics records request latency per route
type HTTPMetrics struct {
	duration *Histogram
}

// NewHTTPMetrics creates the HTTP request duration histogram on meter
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	h, err := NewHistogram(meter, HistogramOpts{
		Name:        MetricHTTPRequestDuration,
		Description: "HTTP request duration",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &HTTPMetrics{duration: h}, nil
}

// RecordRequest records one finished request
func (m *HTTPMetrics) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	m.duration.RecordDuration(ctx, d,
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(route),
		AttrHTTPStatusCode.Int(status),
	)
}
