package event

import (
	"context"

	appbilling "github.com/erp/bills/internal/application/billing"
	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/domain/shared"
)

// BusPublisher publishes integration events onto an in-process event bus
type BusPublisher struct {
	bus shared.EventPublisher
}

// NewBusPublisher creates a publisher backed by bus
func NewBusPublisher(bus shared.EventPublisher) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// PublishBillCreated implements appbilling.IntegrationEventPublisher
func (p *BusPublisher) PublishBillCreated(ctx context.Context, event *billing.BillCreatedEvent) error {
	return p.bus.Publish(ctx, event)
}

var _ appbilling.IntegrationEventPublisher = (*BusPublisher)(nil)
