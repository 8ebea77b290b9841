package event

import (
	"testing"
	"time"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBillCreatedEvent() *billing.BillCreatedEvent {
	return billing.NewBillCreatedEvent(&billing.CreatedBill{
		ID:         7,
		BillNumber: "INV-7",
		IssuedAt:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Subtotal:   decimal.RequireFromString("20"),
		Tax:        decimal.RequireFromString("2.5"),
		Total:      decimal.RequireFromString("22.5"),
		Currency:   "USD",
	}, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), "")
}

func TestMarshal(t *testing.T) {
	body, err := Marshal(newBillCreatedEvent())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"eventName": "bill.created",
		"occurredAtUtc": "2026-03-14T09:00:00Z",
		"payload": {
			"billId": 7,
			"billNumber": "INV-7",
			"issuedAt": "2026-03-14",
			"subtotal": 20.00,
			"tax": 2.50,
			"total": 22.50,
			"currency": "USD",
			"occurredAtUtc": "2026-03-14T09:00:00Z",
			"source": "go-api"
		}
	}`, string(body))
}

func TestUnmarshal(t *testing.T) {
	t.Run("round trips the payload", func(t *testing.T) {
		body, err := Marshal(newBillCreatedEvent())
		require.NoError(t, err)

		env, err := Unmarshal(body)
		require.NoError(t, err)
		assert.Equal(t, billing.EventTypeBillCreated, env.EventName)
		assert.True(t, env.OccurredAtUTC.Equal(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)))

		var payload billing.BillCreatedEvent
		require.NoError(t, env.DecodePayload(&payload))
		assert.Equal(t, int64(7), payload.BillID)
		assert.Equal(t, "22.50", payload.Total.String())
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		_, err := Unmarshal([]byte("{"))
		assert.Error(t, err)
	})

	t.Run("rejects missing event name", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"payload":{}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "eventName")
	})
}
