package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrBadRequest indicates malformed input or a request with nothing to persist.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller does not own the resolved owner.
	ErrForbidden = errors.New("forbidden")

	// ErrUpstream indicates the embedding collaborator failed or timed out.
	// A rebuild that fails with this error leaves persisted state untouched.
	ErrUpstream = errors.New("upstream error")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Ingestion and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedType indicates an unknown owner type, provider or MIME type.
	ErrUnsupportedType = errors.New("unsupported type")
)
