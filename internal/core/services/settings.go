package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize         = "chunker.chunk_size"
	keyChunkOverlap      = "chunker.overlap"
	keyDefaultEmbedRatio = "ingest.default_embed_ratio"
	keyEmbedConcurrency  = "ingest.embed_concurrency"
	keyEmbedBatchSize    = "ingest.embed_batch_size"
	keyEmbedTimeout      = "ingest.embed_timeout_seconds"
	keyTopK              = "retrieval.top_k"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedDimensions   = "embedding.dimensions"
	keyEmbedRPS          = "embedding.requests_per_second"
	keyCacheRedisAddr    = "cache.redis_addr"
	keyCacheTTL          = "cache.ttl_seconds"
	keyServerAddr        = "server.addr"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Chunker: domain.ChunkerSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunker.ChunkSize),
			Overlap:   s.getInt(keyChunkOverlap, defaults.Chunker.Overlap),
		},
		Ingest: domain.IngestSettings{
			DefaultEmbedRatio: domain.ClampEmbedRatio(
				s.getFloat(keyDefaultEmbedRatio, defaults.Ingest.DefaultEmbedRatio),
				defaults.Ingest.DefaultEmbedRatio,
			),
			EmbedConcurrency: s.getInt(keyEmbedConcurrency, defaults.Ingest.EmbedConcurrency),
			EmbedBatchSize:   s.getInt(keyEmbedBatchSize, defaults.Ingest.EmbedBatchSize),
			EmbedTimeout:     s.getSeconds(keyEmbedTimeout, defaults.Ingest.EmbedTimeout),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, defaults.Retrieval.TopK),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
		},
		Cache: domain.CacheSettings{
			RedisAddr: s.configStore.GetString(keyCacheRedisAddr),
			TTL:       s.getSeconds(keyCacheTTL, defaults.Cache.TTL),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyChunkSize, settings.Chunker.ChunkSize},
		{keyChunkOverlap, settings.Chunker.Overlap},
		{keyDefaultEmbedRatio, settings.Ingest.DefaultEmbedRatio},
		{keyEmbedConcurrency, settings.Ingest.EmbedConcurrency},
		{keyEmbedBatchSize, settings.Ingest.EmbedBatchSize},
		{keyEmbedTimeout, int(settings.Ingest.EmbedTimeout / time.Second)},
		{keyTopK, settings.Retrieval.TopK},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyCacheRedisAddr, settings.Cache.RedisAddr},
		{keyCacheTTL, int(settings.Cache.TTL / time.Second)},
		{keyServerAddr, settings.Server.Addr},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Local providers need a base URL, cloud providers don't
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Update vector dimensions based on model
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetDefaultEmbedRatio updates the ratio used when requests carry none.
func (s *SettingsService) SetDefaultEmbedRatio(ratio float64) error {
	if ratio < domain.MinEmbedRatio || ratio > domain.MaxEmbedRatio {
		return fmt.Errorf("embed ratio %v outside [%.1f, %.1f]: %w",
			ratio, domain.MinEmbedRatio, domain.MaxEmbedRatio, domain.ErrBadRequest)
	}
	return s.configStore.Set(keyDefaultEmbedRatio, ratio)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", settings.Chunker.ChunkSize)
	}
	if settings.Chunker.Overlap < 0 {
		return fmt.Errorf("chunk overlap must not be negative, got %d", settings.Chunker.Overlap)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", settings.Retrieval.TopK)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured: %w", domain.ErrEmbeddingUnavailable)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := s.configStore.GetInt(key)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
