package driven

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// DefaultTopK is the number of hits returned when callers pass no limit.
const DefaultTopK = 3

// VectorStore holds the vector documents of each owner.
// Scoring is exact cosine similarity over every document of the owner.
type VectorStore interface {
	// Replace atomically overwrites all vector documents for owner.
	Replace(ctx context.Context, owner domain.Owner, docs []domain.VectorDocument) error

	// Clear removes all vector documents for owner.
	Clear(ctx context.Context, owner domain.Owner) error

	// Query returns the topK documents most similar to embedding, best first.
	// An owner without documents or an empty embedding yields an empty result.
	Query(ctx context.Context, owner domain.Owner, embedding []float32, topK int) ([]domain.VectorHit, error)
}
