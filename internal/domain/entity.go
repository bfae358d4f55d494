package domain

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Entity is the capability contract shared by domain entities: a globally
// unique identifier assigned at creation, a creation timestamp, and an
// optional last-modified timestamp set on every mutation.
type Entity interface {
	EntityID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() *time.Time
}

// SameIdentity reports whether two entities are the same entity: equal
// identifiers and matching concrete types. Nil entities, including typed-nil
// pointers wrapped in the interface, are never the same as anything.
func SameIdentity(a, b Entity) bool {
	if isNilEntity(a) || isNilEntity(b) {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return a.EntityID() == b.EntityID()
}

func isNilEntity(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
