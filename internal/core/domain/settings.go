package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// ChunkerSettings controls how manual text is split into windows.
type ChunkerSettings struct {
	// ChunkSize is the window length in runes.
	ChunkSize int

	// Overlap is the number of runes shared by consecutive windows.
	Overlap int
}

// IngestSettings controls rebuild behaviour.
type IngestSettings struct {
	// DefaultEmbedRatio is used when a request carries no usable ratio.
	DefaultEmbedRatio float64

	// EmbedConcurrency bounds in-flight embedding batches per rebuild.
	EmbedConcurrency int

	// EmbedBatchSize is the number of chunks sent per embedding call.
	EmbedBatchSize int

	// EmbedTimeout bounds the whole embedding phase of one rebuild.
	EmbedTimeout time.Duration
}

// RetrievalSettings controls query behaviour.
type RetrievalSettings struct {
	// TopK is the number of chunks returned when the caller does not specify one.
	TopK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's known vector size when non-zero.
	Dimensions int

	// RequestsPerSecond throttles calls to the provider. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// CacheSettings configures the optional embedding cache.
type CacheSettings struct {
	// RedisAddr is host:port of the cache. Empty disables caching.
	RedisAddr string

	// TTL is how long cached embeddings live.
	TTL time.Duration
}

// Enabled reports whether an embedding cache should be used.
func (c CacheSettings) Enabled() bool {
	return c.RedisAddr != ""
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunker   ChunkerSettings
	Ingest    IngestSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	Cache     CacheSettings
	Server    ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Embedding is left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunker: ChunkerSettings{
			ChunkSize: 800,
			Overlap:   100,
		},
		Ingest: IngestSettings{
			DefaultEmbedRatio: MaxEmbedRatio,
			EmbedConcurrency:  4,
			EmbedBatchSize:    16,
			EmbedTimeout:      2 * time.Minute,
		},
		Retrieval: RetrievalSettings{
			TopK: 3,
		},
		Embedding: EmbeddingSettings{},
		Cache: CacheSettings{
			TTL: 24 * time.Hour,
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:8080",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
