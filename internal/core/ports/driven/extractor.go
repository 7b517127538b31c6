package driven

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// TextExtractor turns the bytes of an uploaded file into plain text.
// Each extractor handles specific MIME types (e.g., Markdown).
type TextExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract converts content into a file input ready for ingestion.
	Extract(ctx context.Context, name, mimeType string, content []byte) (domain.FileInput, error)
}
