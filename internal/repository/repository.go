package repository

import (
	"context"
	"errors"
	"sync"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("entity not found")
)

// Repository is the generic contract for aggregate storage, keyed by entity
// identity.
type Repository[T domain.Entity] interface {
	// Add stores a new aggregate and returns the same instance, so buffered
	// domain events survive the round trip.
	Add(ctx context.Context, entity T) (T, error)
	// Update replaces the stored aggregate with a matching id. An unknown id
	// is a silent no-op.
	Update(ctx context.Context, entity T) error
	// Remove deletes the stored aggregate with a matching id.
	Remove(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	GetAll(ctx context.Context) ([]T, error)
	Find(ctx context.Context, predicate func(T) bool) ([]T, error)
	Exists(ctx context.Context, predicate func(T) bool) (bool, error)
	Count(ctx context.Context, predicate func(T) bool) (int, error)
}

// MemoryRepository is an insertion-ordered in-memory Repository. Lookups are
// linear scans; Update replaces the element whose id matches. The mutex keeps
// individual operations memory-safe; it does not provide isolation across a
// load-mutate-persist sequence, so concurrent commands against the same id
// are last-write-wins.
type MemoryRepository[T domain.Entity] struct {
	mu       sync.RWMutex
	entities []T
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository[T domain.Entity]() *MemoryRepository[T] {
	return &MemoryRepository[T]{}
}

// Add appends the aggregate, preserving insertion order.
func (r *MemoryRepository[T]) Add(ctx context.Context, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entities = append(r.entities, entity)
	return entity, nil
}

// Update replaces the stored aggregate by identity match. An unknown id is a
// silent no-op.
func (r *MemoryRepository[T]) Update(ctx context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, stored := range r.entities {
		if stored.EntityID() == entity.EntityID() {
			r.entities[i] = entity
			return nil
		}
	}
	return nil
}

// Remove deletes the aggregate with the same id, keeping insertion order of
// the remainder.
func (r *MemoryRepository[T]) Remove(ctx context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, stored := range r.entities {
		if stored.EntityID() == entity.EntityID() {
			r.entities = append(r.entities[:i], r.entities[i+1:]...)
			return nil
		}
	}
	return nil
}

// GetByID returns the aggregate with the given id, or ErrNotFound.
func (r *MemoryRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.entities {
		if stored.EntityID() == id {
			return stored, nil
		}
	}

	var zero T
	return zero, ErrNotFound
}

// GetAll returns every stored aggregate in insertion order.
func (r *MemoryRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]T, len(r.entities))
	copy(all, r.entities)
	return all, nil
}

// Find returns the aggregates matching the predicate, in insertion order.
func (r *MemoryRepository[T]) Find(ctx context.Context, predicate func(T) bool) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []T
	for _, stored := range r.entities {
		if predicate(stored) {
			matches = append(matches, stored)
		}
	}
	return matches, nil
}

// Exists reports whether any stored aggregate matches the predicate.
func (r *MemoryRepository[T]) Exists(ctx context.Context, predicate func(T) bool) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.entities {
		if predicate(stored) {
			return true, nil
		}
	}
	return false, nil
}

// Count returns how many stored aggregates match the predicate.
func (r *MemoryRepository[T]) Count(ctx context.Context, predicate func(T) bool) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, stored := range r.entities {
		if predicate(stored) {
			count++
		}
	}
	return count, nil
}
