package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/bills/internal/domain/shared"
)

// Envelope is the wire form of an integration event.
// Every transport publishes the same JSON document.
type Envelope struct {
	EventName     string          `json:"eventName"`
	OccurredAtUTC time.Time       `json:"occurredAtUtc"`
	Payload       json.RawMessage `json:"payload"`
}

// Marshal wraps event in an Envelope and encodes it as JSON
func Marshal(event shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event.EventType(), err)
	}
	body, err := json.Marshal(Envelope{
		EventName:     event.EventType(),
		OccurredAtUTC: event.OccurredAt().UTC(),
		Payload:       payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return body, nil
}

// Unmarshal decodes an Envelope. The payload stays raw; callers decode it
// into the type matching EventName.
func Unmarshal(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.EventName == "" {
		return nil, fmt.Errorf("envelope has no eventName")
	}
	return &env, nil
}

// DecodePayload decodes the envelope payload into v
func (e *Envelope) DecodePayload(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.EventName, err)
	}
	return nil
}
