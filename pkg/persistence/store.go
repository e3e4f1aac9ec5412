// Package persistence provides the entity manager used by the save workflow
// together with a gorm-backed implementation.
package persistence

import (
	"context"
	"errors"
)

// ErrNoIdentifier is returned when an entity has no single, non-zero
// identifier.
var ErrNoIdentifier = errors.New("persistence: entity has no identifier")

// EntityManager attaches entities and writes pending changes.
type EntityManager interface {
	Persist(ctx context.Context, entity any) error
	Flush(ctx context.Context) error
}

// Store resolves the manager responsible for an entity and reads entity
// identifiers.
type Store interface {
	EntityManager(entity any) (EntityManager, error)
	SingleIdentifier(entity any) (any, error)
}
