package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType tags the domain-event variants.
type EventType string

const (
	EventTypeProductCreated     EventType = "ProductCreated"
	EventTypeStockUpdated       EventType = "StockUpdated"
	EventTypePriceChanged       EventType = "PriceChanged"
	EventTypeProductDeactivated EventType = "ProductDeactivated"
)

// Stock operation kinds carried by StockUpdated events.
const (
	StockOperationAdd    = "add"
	StockOperationRemove = "remove"
)

// DefaultDeactivationReason is recorded when no reason is given.
const DefaultDeactivationReason = "deactivated by administrator"

// EventPayload is implemented by every event variant. Consumers dispatch on
// the event's Type tag, not on the payload's runtime type.
type EventPayload interface {
	eventType() EventType
}

// Event is an immutable record of something that happened to an aggregate:
// shared metadata plus exactly one variant payload.
type Event struct {
	ID         uuid.UUID
	OccurredOn time.Time
	Type       EventType
	Payload    EventPayload
}

// NewEvent stamps a payload with a fresh event id and the current UTC time.
func NewEvent(payload EventPayload) Event {
	return Event{
		ID:         uuid.New(),
		OccurredOn: time.Now().UTC(),
		Type:       payload.eventType(),
		Payload:    payload,
	}
}

// ProductCreated is emitted when a new product enters the catalog.
type ProductCreated struct {
	ProductID     uuid.UUID       `json:"productId"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Category      string          `json:"category"`
}

func (ProductCreated) eventType() EventType { return EventTypeProductCreated }

// StockUpdated is emitted on every stock addition or removal.
type StockUpdated struct {
	ProductID        uuid.UUID `json:"productId"`
	SKU              string    `json:"sku"`
	PreviousQuantity int       `json:"previousQuantity"`
	CurrentQuantity  int       `json:"currentQuantity"`
	Operation        string    `json:"operation"`
}

func (StockUpdated) eventType() EventType { return EventTypeStockUpdated }

// PriceChanged is emitted when a product's price is replaced. PercentChange
// is zero when the previous price was zero.
type PriceChanged struct {
	ProductID     uuid.UUID       `json:"productId"`
	SKU           string          `json:"sku"`
	PreviousPrice decimal.Decimal `json:"previousPrice"`
	NewPrice      decimal.Decimal `json:"newPrice"`
	PercentChange decimal.Decimal `json:"percentChange"`
}

func (PriceChanged) eventType() EventType { return EventTypePriceChanged }

func newPriceChanged(productID uuid.UUID, sku string, previous, current Money) PriceChanged {
	percent := decimal.Zero
	if previous.Amount().IsPositive() {
		percent = current.Amount().
			Sub(previous.Amount()).
			Div(previous.Amount()).
			Mul(decimal.NewFromInt(100))
	}
	return PriceChanged{
		ProductID:     productID,
		SKU:           sku,
		PreviousPrice: previous.Amount(),
		NewPrice:      current.Amount(),
		PercentChange: percent,
	}
}

// ProductDeactivated is emitted when a product is pulled from sale.
type ProductDeactivated struct {
	ProductID uuid.UUID `json:"productId"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Reason    string    `json:"reason"`
}

func (ProductDeactivated) eventType() EventType { return EventTypeProductDeactivated }

// eventEnvelope is the wire-level metadata shared by all variants.
type eventEnvelope struct {
	EventID    uuid.UUID `json:"eventId"`
	OccurredOn time.Time `json:"occurredOn"`
	EventType  EventType `json:"eventType"`
}

// MarshalJSON flattens the event into a single object: the shared metadata
// fields alongside the variant's own fields.
func (e Event) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.Type, err)
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("flatten %s payload: %w", e.Type, err)
	}
	body["eventId"] = e.ID
	body["occurredOn"] = e.OccurredOn.UTC().Format(time.RFC3339Nano)
	body["eventType"] = e.Type
	return json.Marshal(body)
}

// UnmarshalJSON decodes the flattened wire shape back into an Event,
// dispatching on the eventType tag to pick the payload variant.
func (e *Event) UnmarshalJSON(data []byte) error {
	var envelope eventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode event envelope: %w", err)
	}

	var payload EventPayload
	switch envelope.EventType {
	case EventTypeProductCreated:
		var p ProductCreated
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", envelope.EventType, err)
		}
		payload = p
	case EventTypeStockUpdated:
		var p StockUpdated
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", envelope.EventType, err)
		}
		payload = p
	case EventTypePriceChanged:
		var p PriceChanged
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", envelope.EventType, err)
		}
		payload = p
	case EventTypeProductDeactivated:
		var p ProductDeactivated
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", envelope.EventType, err)
		}
		payload = p
	default:
		return fmt.Errorf("unknown event type %q", envelope.EventType)
	}

	e.ID = envelope.EventID
	e.OccurredOn = envelope.OccurredOn
	e.Type = envelope.EventType
	e.Payload = payload
	return nil
}
