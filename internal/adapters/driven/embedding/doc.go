// Package embedding holds decorators around provider embedding services.
//
// The provider adapters live in the ollama and openai subpackages. The
// decorators here compose around any driven.EmbeddingService:
//
//   - Lazy defers provider construction until the first call
//   - RateLimited throttles outbound requests with a token bucket
//   - Cached stores vectors in Redis keyed by model and text hash
package embedding
