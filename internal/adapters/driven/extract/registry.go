package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/extract/markdown"
	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/extract/plaintext"
	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// extensionTypes maps file extensions to the MIME types extractors declare.
var extensionTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".log":      "text/plain",
	".csv":      "text/csv",
	".json":     "application/json",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".xml":      "application/xml",
	".html":     "text/html",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".sql":      "text/x-sql",
	".sh":       "text/x-shellscript",
}

// Registry dispatches files to extractors by MIME type.
type Registry struct {
	byType map[string]driven.TextExtractor
}

// NewRegistry registers extractors; later ones win on overlapping types.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byType: make(map[string]driven.TextExtractor)}
	for _, e := range extractors {
		for _, t := range e.SupportedMIMETypes() {
			r.byType[t] = e
		}
	}
	return r
}

// Default returns a registry with the plaintext and markdown extractors.
func Default() *Registry {
	return NewRegistry(plaintext.New(), markdown.New())
}

// MIMETypeFor guesses a MIME type from the file name.
// Returns an empty string for unknown extensions.
func MIMETypeFor(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}

// Extract converts content using the extractor for mimeType.
// An empty mimeType is guessed from name.
func (r *Registry) Extract(ctx context.Context, name, mimeType string, content []byte) (domain.FileInput, error) {
	if mimeType == "" {
		mimeType = MIMETypeFor(name)
	}
	// Parameters such as charset do not affect dispatch.
	base, _, _ := strings.Cut(mimeType, ";")
	base = strings.TrimSpace(strings.ToLower(base))

	e, ok := r.byType[base]
	if !ok {
		return domain.FileInput{}, fmt.Errorf("%s (%q): %w", name, mimeType, domain.ErrUnsupportedType)
	}
	return e.Extract(ctx, name, base, content)
}
