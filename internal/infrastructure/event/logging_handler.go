package event

import (
	"context"

	"github.com/erp/bills/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler writes every event it receives to the log as its wire envelope.
// It backs the "log" messaging driver used in development.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.Named("events")}
}

// Handle implements shared.EventHandler
func (h *LoggingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	body, err := Marshal(event)
	if err != nil {
		return err
	}
	h.logger.Info("Integration event published",
		zap.String("event_name", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.ByteString("envelope", body),
	)
	return nil
}

// EventTypes returns nil so the handler receives all events
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*LoggingHandler)(nil)
