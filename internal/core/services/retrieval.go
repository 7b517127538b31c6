package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers "which parts of this owner's manual match the query".
type RetrievalService struct {
	vectors     driven.VectorStore
	embedder    driven.EmbeddingService
	defaultTopK int
}

// NewRetrievalService creates a new retrieval service.
// The embedder may be nil; retrieval then fails with domain.ErrEmbeddingUnavailable.
func NewRetrievalService(
	vectors driven.VectorStore, embedder driven.EmbeddingService, settings domain.RetrievalSettings,
) *RetrievalService {
	topK := settings.TopK
	if topK <= 0 {
		topK = driven.DefaultTopK
	}
	return &RetrievalService{
		vectors:     vectors,
		embedder:    embedder,
		defaultTopK: topK,
	}
}

// Retrieve returns up to topK chunk texts of the owner's manual, best match first.
// A blank query or an owner without a manual yields an empty list.
func (s *RetrievalService) Retrieve(
	ctx context.Context, owner domain.Owner, query string, topK int,
) ([]string, error) {
	logger.Section("Manual Retrieval")

	if err := owner.Validate(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no chunks")
		return []string{}, nil
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("embed query: %w: %w", domain.ErrUpstream, err)
	}
	if len(embedding) == 0 {
		return []string{}, nil
	}

	hits, err := s.vectors.Query(ctx, owner, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	for i, h := range hits {
		logger.Debug("  %d. score=%.4f id=%s", i+1, h.Score, h.ID)
	}
	return domain.Contents(hits), nil
}
