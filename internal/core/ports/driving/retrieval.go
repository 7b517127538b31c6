package driving

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// RetrievalService returns manual fragments relevant to a query.
type RetrievalService interface {
	// Retrieve returns up to topK chunk texts, best match first.
	// topK <= 0 uses the configured default.
	Retrieve(ctx context.Context, owner domain.Owner, query string, topK int) ([]string, error)
}
