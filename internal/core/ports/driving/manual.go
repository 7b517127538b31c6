package driving

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// ManualService manages the manual of each owner.
// Mutations for one owner are serialised; different owners proceed in parallel.
type ManualService interface {
	// Ingest merges new sources into the owner's manual and rebuilds it.
	Ingest(ctx context.Context, owner domain.Owner, req domain.IngestRequest) (*domain.ManualSummary, error)

	// Status reports the owner's manual as of the last completed rebuild.
	Status(ctx context.Context, owner domain.Owner) (domain.ManualStatus, error)

	// RemoveSource drops one source and rebuilds, or deletes the manual if none remain.
	RemoveSource(ctx context.Context, owner domain.Owner, sourceID string) (domain.ManualStatus, error)

	// DeleteOwner removes the owner's manual and vector documents. Idempotent.
	DeleteOwner(ctx context.Context, owner domain.Owner) error

	// Owners lists every owner that currently has a manual.
	Owners(ctx context.Context) ([]domain.Owner, error)
}
