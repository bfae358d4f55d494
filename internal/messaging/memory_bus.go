package messaging

import (
	"context"
	"sync"

	"catalog-service/internal/domain"

	"go.uber.org/zap"
)

// InMemoryBus is an EventBus that keeps published events in memory and logs
// them. It backs local development when the broker is disabled, and tests.
type InMemoryBus struct {
	mu     sync.Mutex
	events []domain.Event
	logger *zap.Logger
}

// NewInMemoryBus creates an in-memory bus. The logger may be nil.
func NewInMemoryBus(logger *zap.Logger) *InMemoryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryBus{logger: logger}
}

// Publish records the event.
func (b *InMemoryBus) Publish(ctx context.Context, event domain.Event) error {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()

	b.logger.Info("Event published (in-memory)",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", string(event.Type)),
		zap.String("destination", Destination(event.Type)),
	)
	return nil
}

// Published returns the events recorded so far, in publish order.
func (b *InMemoryBus) Published() []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := make([]domain.Event, len(b.events))
	copy(events, b.events)
	return events
}
