package messaging

import (
	"context"

	"catalog-service/internal/domain"
)

// EventBus hands domain events to a message transport, one at a time. A
// returned error is a transport failure; deciding whether to retry or abort
// is the caller's concern (the broker adapter applies its own bounded retry
// underneath, transparently).
type EventBus interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Destination names the context-qualified exchange an event variant is
// published to.
func Destination(eventType domain.EventType) string {
	switch eventType {
	case domain.EventTypeProductCreated:
		return "catalog.product-created"
	case domain.EventTypeStockUpdated:
		return "catalog.stock-updated"
	case domain.EventTypePriceChanged:
		return "catalog.price-changed"
	case domain.EventTypeProductDeactivated:
		return "catalog.product-deactivated"
	default:
		return "catalog.unknown"
	}
}

// LogQueueName is the single consumer queue bound to every event destination.
const LogQueueName = "catalog-log-queue"

// Destinations lists every exchange the catalog publishes to.
func Destinations() []string {
	return []string{
		Destination(domain.EventTypeProductCreated),
		Destination(domain.EventTypeStockUpdated),
		Destination(domain.EventTypePriceChanged),
		Destination(domain.EventTypeProductDeactivated),
	}
}
