package event

import (
	"context"
	"testing"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBusPublisher_PublishBillCreated(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewLoggingHandler(zap.New(core)))
	handler := newTestHandler(billing.EventTypeBillCreated)
	bus.Subscribe(handler)

	event := newBillCreatedEvent()
	err := NewBusPublisher(bus).PublishBillCreated(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, handler.getHandled(), 1)
	assert.Same(t, event, handler.getHandled()[0])

	entries := logs.FilterMessage("Integration event published").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "bill.created", fields["event_name"])
	assert.Equal(t, "7", fields["aggregate_id"])
	assert.Contains(t, fields["envelope"], `"billNumber":"INV-7"`)
}

func TestBusPublisher_PropagatesHandlerFailure(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := newTestHandler()
	failing.err = assert.AnError
	bus.Subscribe(failing)

	err := NewBusPublisher(bus).PublishBillCreated(context.Background(), newBillCreatedEvent())
	assert.ErrorIs(t, err, assert.AnError)
}
