package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(
		"Wireless Mouse",
		"Bluetooth wireless mouse",
		mustMoney(t, 50, "BRL"),
		5,
		"m-001",
		"Peripherals",
	)
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("valid input yields an active product with one ProductCreated event", func(t *testing.T) {
		p := newTestProduct(t)

		assert.True(t, p.IsActive())
		assert.True(t, p.IsAvailable())
		assert.Equal(t, "M-001", p.SKU(), "SKU is normalized to uppercase")
		assert.Nil(t, p.UpdatedAt())
		assert.False(t, p.CreatedAt().IsZero())

		events := p.PendingEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].Type)

		payload, ok := events[0].Payload.(ProductCreated)
		require.True(t, ok)
		assert.Equal(t, p.EntityID(), payload.ProductID)
		assert.Equal(t, "Wireless Mouse", payload.Name)
		assert.Equal(t, "M-001", payload.SKU)
		assert.True(t, payload.Price.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, 5, payload.StockQuantity)
		assert.Equal(t, "Peripherals", payload.Category)
	})

	t.Run("validation failures name the offending field", func(t *testing.T) {
		price := mustMoney(t, 50, "BRL")
		cases := []struct {
			name        string
			build       func() (*Product, error)
			wantField   string
		}{
			{"empty name", func() (*Product, error) {
				return NewProduct("", "desc", price, 1, "SKU-1", "Cat")
			}, "name"},
			{"short name", func() (*Product, error) {
				return NewProduct("ab", "desc", price, 1, "SKU-1", "Cat")
			}, "name"},
			{"long name", func() (*Product, error) {
				return NewProduct(strings.Repeat("a", 201), "desc", price, 1, "SKU-1", "Cat")
			}, "name"},
			{"empty description", func() (*Product, error) {
				return NewProduct("Product", "   ", price, 1, "SKU-1", "Cat")
			}, "description"},
			{"long description", func() (*Product, error) {
				return NewProduct("Product", strings.Repeat("d", 1001), price, 1, "SKU-1", "Cat")
			}, "description"},
			{"negative stock", func() (*Product, error) {
				return NewProduct("Product", "desc", price, -1, "SKU-1", "Cat")
			}, "stockQuantity"},
			{"short sku", func() (*Product, error) {
				return NewProduct("Product", "desc", price, 1, "ab", "Cat")
			}, "sku"},
			{"long sku", func() (*Product, error) {
				return NewProduct("Product", "desc", price, 1, strings.Repeat("s", 51), "Cat")
			}, "sku"},
			{"empty category", func() (*Product, error) {
				return NewProduct("Product", "desc", price, 1, "SKU-1", " ")
			}, "category"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := tc.build()
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tc.wantField, validationErr.Field)
			})
		}
	})

	t.Run("lengths count characters, not bytes", func(t *testing.T) {
		price := mustMoney(t, 50, "BRL")

		// "Pé" is 2 characters in 3 bytes; still below the minimum.
		_, err := NewProduct("Pé", "desc", price, 1, "SKU-1", "Cat")
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "name", validationErr.Field)

		// 150 accented characters occupy 300 bytes but fit the 200 limit.
		accented := strings.Repeat("é", 150)
		p, err := NewProduct(accented, "desc", price, 1, "SKU-1", "Cat")
		require.NoError(t, err)
		assert.Equal(t, accented, p.Name())

		// Boundary values: exactly 3 and exactly 200 characters pass.
		_, err = NewProduct("Pés", "desc", price, 1, "SKU-1", "Cat")
		require.NoError(t, err)
		_, err = NewProduct(strings.Repeat("ã", 200), "desc", price, 1, "SKU-1", "Cat")
		require.NoError(t, err)
		_, err = NewProduct(strings.Repeat("ã", 201), "desc", price, 1, "SKU-1", "Cat")
		require.ErrorAs(t, err, &validationErr)

		// Same rule for description and SKU.
		_, err = NewProduct("Product", strings.Repeat("ç", 1000), price, 1, "SKU-1", "Cat")
		require.NoError(t, err)
		_, err = NewProduct("Product", strings.Repeat("ç", 1001), price, 1, "SKU-1", "Cat")
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "description", validationErr.Field)

		_, err = NewProduct("Product", "desc", price, 1, strings.Repeat("é", 50), "Cat")
		require.NoError(t, err)
		_, err = NewProduct("Product", "desc", price, 1, strings.Repeat("é", 51), "Cat")
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "sku", validationErr.Field)
	})

	t.Run("zero price is rejected", func(t *testing.T) {
		zero, err := NewMoney(decimal.Zero, "BRL")
		require.NoError(t, err)

		_, err = NewProduct("Product", "desc", zero, 1, "SKU-1", "Cat")
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "price", validationErr.Field)
	})
}

func TestProductUpdateInfo(t *testing.T) {
	p := newTestProduct(t)
	before := len(p.PendingEvents())

	err := p.UpdateInfo("Gaming Mouse", "RGB gaming mouse", "Gaming")
	require.NoError(t, err)

	assert.Equal(t, "Gaming Mouse", p.Name())
	assert.Equal(t, "RGB gaming mouse", p.Description())
	assert.Equal(t, "Gaming", p.Category())
	assert.NotNil(t, p.UpdatedAt())
	assert.Len(t, p.PendingEvents(), before, "UpdateInfo is state-only and emits no event")
}

func TestProductChangePrice(t *testing.T) {
	t.Run("non-positive price fails", func(t *testing.T) {
		p := newTestProduct(t)
		zero, err := NewMoney(decimal.Zero, "BRL")
		require.NoError(t, err)

		err = p.ChangePrice(zero)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.True(t, p.Price().Equals(mustMoney(t, 50, "BRL")), "price is unchanged")
	})

	t.Run("valid price appends PriceChanged with percent change", func(t *testing.T) {
		p, err := NewProduct("Keyboard", "mechanical keyboard", mustMoney(t, 100, "BRL"), 3, "KB-001", "Peripherals")
		require.NoError(t, err)

		require.NoError(t, p.ChangePrice(mustMoney(t, 150, "BRL")))

		events := p.PendingEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypePriceChanged, events[1].Type)

		payload, ok := events[1].Payload.(PriceChanged)
		require.True(t, ok)
		assert.True(t, payload.PreviousPrice.Equal(decimal.NewFromInt(100)))
		assert.True(t, payload.NewPrice.Equal(decimal.NewFromInt(150)))
		assert.True(t, payload.PercentChange.Equal(decimal.NewFromInt(50)))
	})
}

func TestProductStock(t *testing.T) {
	t.Run("add stock", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.AddStock(10))
		assert.Equal(t, 15, p.StockQuantity())

		events := p.PendingEvents()
		require.Len(t, events, 2)
		payload, ok := events[1].Payload.(StockUpdated)
		require.True(t, ok)
		assert.Equal(t, 5, payload.PreviousQuantity)
		assert.Equal(t, 15, payload.CurrentQuantity)
		assert.Equal(t, StockOperationAdd, payload.Operation)
	})

	t.Run("remove stock", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.RemoveStock(3))
		assert.Equal(t, 2, p.StockQuantity())

		events := p.PendingEvents()
		require.Len(t, events, 2)
		payload, ok := events[1].Payload.(StockUpdated)
		require.True(t, ok)
		assert.Equal(t, StockOperationRemove, payload.Operation)
	})

	t.Run("removing more than available fails without mutating", func(t *testing.T) {
		p := newTestProduct(t)
		err := p.RemoveStock(6)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 5, stockErr.Available)
		assert.Equal(t, 6, stockErr.Requested)
		assert.Equal(t, 5, p.StockQuantity())
		assert.Len(t, p.PendingEvents(), 1, "no event buffered for the failed removal")
	})

	t.Run("non-positive quantities fail", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Error(t, p.AddStock(0))
		assert.Error(t, p.AddStock(-1))
		assert.Error(t, p.RemoveStock(0))
	})
}

func TestProductActivation(t *testing.T) {
	t.Run("deactivate makes the product unavailable and emits one event", func(t *testing.T) {
		p := newTestProduct(t)
		require.True(t, p.IsAvailable())

		p.Deactivate()

		assert.False(t, p.IsAvailable())
		events := p.PendingEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeProductDeactivated, events[1].Type)

		payload, ok := events[1].Payload.(ProductDeactivated)
		require.True(t, ok)
		assert.Equal(t, "deactivated by administrator", payload.Reason)
		assert.Equal(t, "M-001", payload.SKU)
	})

	t.Run("activate is state-only", func(t *testing.T) {
		p := newTestProduct(t)
		p.Deactivate()
		before := len(p.PendingEvents())

		p.Activate()

		assert.True(t, p.IsActive())
		assert.Len(t, p.PendingEvents(), before, "Activate emits no event")
	})
}

func TestProductSetImage(t *testing.T) {
	p := newTestProduct(t)

	assert.Error(t, p.SetImage("  "))
	require.NoError(t, p.SetImage("https://example.com/mouse.jpg"))
	assert.Equal(t, "https://example.com/mouse.jpg", p.ImageURL())
}

func TestProductEventBufferOwnership(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.AddStock(1))
	require.Len(t, p.PendingEvents(), 2)

	// Mutating the returned slice must not affect the aggregate's buffer.
	events := p.PendingEvents()
	events[0] = Event{}
	assert.Equal(t, EventTypeProductCreated, p.PendingEvents()[0].Type)

	p.ClearEvents()
	assert.Empty(t, p.PendingEvents())
}

func TestSameIdentity(t *testing.T) {
	a := newTestProduct(t)
	b := newTestProduct(t)

	assert.True(t, SameIdentity(a, a))
	assert.False(t, SameIdentity(a, b), "distinct ids are distinct entities")
	assert.False(t, SameIdentity(a, nil))
	assert.False(t, SameIdentity(nil, nil))

	var typedNil *Product
	assert.False(t, SameIdentity(a, typedNil), "typed-nil pointer is treated as nil")
	assert.False(t, SameIdentity(typedNil, typedNil))
}
