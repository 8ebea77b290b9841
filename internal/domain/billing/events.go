package billing

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/erp/bills/internal/domain/shared"
	"github.com/erp/bills/internal/domain/shared/valueobject"
)

const (
	// EventTypeBillCreated is the integration event name for a committed bill
	EventTypeBillCreated = "bill.created"

	// AggregateTypeBill is the aggregate type carried on bill events
	AggregateTypeBill = "Bill"

	// DefaultEventSource tags events produced by this service
	DefaultEventSource = "go-api"
)

// BillCreatedEvent is published once a bill has been committed
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID        int64       `json:"billId"`
	BillNumber    string      `json:"billNumber"`
	IssuedAt      string      `json:"issuedAt"`
	Subtotal      json.Number `json:"subtotal"`
	Tax           json.Number `json:"tax"`
	Total         json.Number `json:"total"`
	Currency      string      `json:"currency"`
	OccurredAtUTC time.Time   `json:"occurredAtUtc"`
	Source        string      `json:"source"`
}

// NewBillCreatedEvent builds the event for a committed bill
func NewBillCreatedEvent(created *CreatedBill, occurredAt time.Time, source string) *BillCreatedEvent {
	if source == "" {
		source = DefaultEventSource
	}
	base := shared.NewBaseDomainEvent(
		EventTypeBillCreated,
		AggregateTypeBill,
		strconv.FormatInt(created.ID, 10),
		occurredAt,
	)
	return &BillCreatedEvent{
		BaseDomainEvent: base,
		BillID:          created.ID,
		BillNumber:      created.BillNumber,
		IssuedAt:        created.IssuedAt.Format(IssuedAtLayout),
		Subtotal:        valueobject.Number(created.Subtotal),
		Tax:             valueobject.Number(created.Tax),
		Total:           valueobject.Number(created.Total),
		Currency:        created.Currency,
		OccurredAtUTC:   base.OccurredAt(),
		Source:          source,
	}
}
