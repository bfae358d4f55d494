package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genProduct(t *testing.T) func(stock int) *Product {
	t.Helper()
	return func(stock int) *Product {
		p, err := NewProduct("Property Product", "product used by property tests", mustMoney(t, 10, "BRL"), stock, "PROP-001", "Testing")
		if err != nil {
			t.Fatalf("failed to build product: %v", err)
		}
		return p
	}
}

// Property 1: creation always yields an active product with a normalized SKU
// and exactly one ProductCreated event.
func TestProperty_CreateBuffersExactlyOneCreatedEvent(t *testing.T) {
	properties := gopter.NewProperties(nil)
	build := genProduct(t)

	properties.Property("one ProductCreated per creation", prop.ForAll(
		func(stock int) bool {
			p := build(stock)
			events := p.PendingEvents()
			return p.IsActive() &&
				p.SKU() == "PROP-001" &&
				len(events) == 1 &&
				events[0].Type == EventTypeProductCreated
		},
		gen.IntRange(0, 10_000),
	))

	properties.TestingRun(t)
}

// Property 2: adding then removing the same quantity returns stock to its
// original value and leaves the aggregate valid.
func TestProperty_StockRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)
	build := genProduct(t)

	properties.Property("add then remove restores the original stock", prop.ForAll(
		func(initial, delta int) bool {
			p := build(initial)
			if err := p.AddStock(delta); err != nil {
				return false
			}
			if err := p.RemoveStock(delta); err != nil {
				return false
			}
			return p.StockQuantity() == initial && p.StockQuantity() >= 0
		},
		gen.IntRange(0, 1_000),
		gen.IntRange(1, 1_000),
	))

	properties.TestingRun(t)
}

// Property 3: removing more than the available stock never mutates state.
func TestProperty_OverdrawNeverMutates(t *testing.T) {
	properties := gopter.NewProperties(nil)
	build := genProduct(t)

	properties.Property("overdraw fails and leaves stock untouched", prop.ForAll(
		func(initial, excess int) bool {
			p := build(initial)
			eventsBefore := len(p.PendingEvents())

			err := p.RemoveStock(initial + excess)

			return err != nil &&
				p.StockQuantity() == initial &&
				len(p.PendingEvents()) == eventsBefore
		},
		gen.IntRange(0, 1_000),
		gen.IntRange(1, 1_000),
	))

	properties.TestingRun(t)
}
