package driven

import "github.com/custodia-labs/sercha-manuals/internal/core/domain"

// AIConfigValidator validates embedding provider configurations by testing
// connectivity to the underlying service.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging the provider.
	// Returns nil if configuration is valid or not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
