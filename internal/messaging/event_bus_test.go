package messaging

import (
	"context"
	"testing"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestination(t *testing.T) {
	cases := map[domain.EventType]string{
		domain.EventTypeProductCreated:     "catalog.product-created",
		domain.EventTypeStockUpdated:       "catalog.stock-updated",
		domain.EventTypePriceChanged:       "catalog.price-changed",
		domain.EventTypeProductDeactivated: "catalog.product-deactivated",
	}

	for eventType, want := range cases {
		assert.Equal(t, want, Destination(eventType))
	}

	assert.Equal(t, "catalog.unknown", Destination(domain.EventType("Bogus")))
	assert.Len(t, Destinations(), 4)
}

func TestInMemoryBusRecordsInOrder(t *testing.T) {
	bus := NewInMemoryBus(nil)
	ctx := context.Background()

	first := domain.NewEvent(domain.ProductDeactivated{
		ProductID: uuid.New(),
		SKU:       "A-001",
		Name:      "First",
		Reason:    domain.DefaultDeactivationReason,
	})
	second := domain.NewEvent(domain.StockUpdated{
		ProductID:        uuid.New(),
		SKU:              "A-001",
		PreviousQuantity: 1,
		CurrentQuantity:  2,
		Operation:        domain.StockOperationAdd,
	})

	require.NoError(t, bus.Publish(ctx, first))
	require.NoError(t, bus.Publish(ctx, second))

	published := bus.Published()
	require.Len(t, published, 2)
	assert.Equal(t, first.ID, published[0].ID)
	assert.Equal(t, second.ID, published[1].ID)
}
