// Package plaintext extracts text from plain text and source files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/x-go",
		"text/x-python",
		"text/x-shellscript",
		"text/x-sql",
		"text/csv",
		"text/yaml",
		"text/toml",
		"text/html",
		"application/json",
		"application/xml",
	}
}

// Extract decodes content as UTF-8 text with normalised line endings.
// Content that is not valid UTF-8 is rejected.
func (e *Extractor) Extract(_ context.Context, name, mimeType string, content []byte) (domain.FileInput, error) {
	text, err := Decode(content)
	if err != nil {
		return domain.FileInput{}, fmt.Errorf("%s: %w", name, err)
	}

	return domain.FileInput{
		Text:      text,
		Label:     filepath.Base(name),
		SizeBytes: int64(len(content)),
		MimeType:  mimeType,
	}, nil
}

// Decode strips a UTF-8 byte order mark and converts CRLF and CR to LF.
func Decode(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return "", fmt.Errorf("content is not valid UTF-8: %w", domain.ErrUnsupportedType)
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}
