package driven

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// ManualStore persists one manual record per owner together with its vector documents.
type ManualStore interface {
	// Get returns the record for owner. Owners with the same ID but a
	// different type are distinct.
	// Returns domain.ErrNotFound if the owner has no manual.
	// Records written before sources were tracked come back with nil Sources.
	Get(ctx context.Context, owner domain.Owner) (*domain.ManualCacheRecord, error)

	// Commit writes record and replaces the owner's vector documents in one unit.
	// Either both become visible or neither does.
	Commit(ctx context.Context, record *domain.ManualCacheRecord, docs []domain.VectorDocument) error

	// Delete removes the record and vector documents for owner.
	// Deleting a missing owner is not an error.
	Delete(ctx context.Context, owner domain.Owner) error

	// List returns the owners that currently have a manual.
	List(ctx context.Context) ([]domain.Owner, error)
}
