package embedding

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*RateLimited)(nil)

// RateLimited spends one token per outbound provider request.
type RateLimited struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
}

// NewRateLimited allows requestsPerSecond requests with the given burst.
// A non-positive rate disables throttling.
func NewRateLimited(inner driven.EmbeddingService, requestsPerSecond float64, burst int) *RateLimited {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimited) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return nil
}

func (r *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return []float32{}, nil
	}
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Embed(ctx, text)
}

func (r *RateLimited) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.EmbedBatch(ctx, texts)
}

func (r *RateLimited) Dimensions() int   { return r.inner.Dimensions() }
func (r *RateLimited) ModelName() string { return r.inner.ModelName() }

func (r *RateLimited) Ping(ctx context.Context) error { return r.inner.Ping(ctx) }
func (r *RateLimited) Close() error                   { return r.inner.Close() }
