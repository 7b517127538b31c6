// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/embedding"
	ollamaembed "github.com/custodia-labs/sercha-manuals/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/sercha-manuals/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// rateLimitBurst is the number of requests allowed back to back.
const rateLimitBurst = 4

// NewEmbeddingPipeline composes the embedding service used by the engine:
// the provider is built lazily on first use, throttled, and optionally
// cached in Redis. Returns nil if embedding is not configured.
func NewEmbeddingPipeline(settings domain.AppSettings) (driven.EmbeddingService, error) {
	cfg := settings.Embedding
	if !cfg.IsConfigured() {
		return nil, nil
	}

	model := modelFor(&cfg)
	lazy := embedding.NewLazy(model, dimensionsFor(&cfg), func() (driven.EmbeddingService, error) {
		return CreateEmbeddingService(&cfg)
	})

	var svc driven.EmbeddingService = embedding.NewRateLimited(lazy, cfg.RequestsPerSecond, rateLimitBurst)

	if settings.Cache.Enabled() {
		client := goredis.NewClient(&goredis.Options{Addr: settings.Cache.RedisAddr})
		svc = embedding.NewCached(svc, client, settings.Cache.TTL)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// Failures wrap domain.ErrEmbeddingUnavailable and name the command that fixes them.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w. Run 'manuals settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Run 'manuals settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// CreateEmbeddingService creates the provider service named by settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      modelFor(settings),
			Dimensions: dimensionsFor(settings),
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      modelFor(settings),
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

func modelFor(settings *domain.EmbeddingSettings) string {
	if settings.Model != "" {
		return settings.Model
	}
	return domain.DefaultEmbeddingModels()[settings.Provider]
}

// dimensionsFor prefers an explicit override, then the known model size.
func dimensionsFor(settings *domain.EmbeddingSettings) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	if d := domain.EmbeddingDimensions()[modelFor(settings)]; d > 0 {
		return d
	}
	if settings.Provider == domain.AIProviderOllama {
		return ollamaembed.DefaultDimensions
	}
	return 0
}
