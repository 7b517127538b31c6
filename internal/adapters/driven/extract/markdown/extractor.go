// Package markdown extracts readable text from Markdown documents.
package markdown

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/extract/plaintext"
	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

var (
	codeFence     = regexp.MustCompile("(?m)^\\s*(```|~~~).*$")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis      = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	blockquote    = regexp.MustCompile(`(?m)^>\s?`)
	horizontal    = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Extractor handles Markdown documents.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Extract converts Markdown to plain text. Code block contents are kept
// because manuals often carry commands and examples in them.
func (e *Extractor) Extract(_ context.Context, name, mimeType string, content []byte) (domain.FileInput, error) {
	text, err := plaintext.Decode(content)
	if err != nil {
		return domain.FileInput{}, fmt.Errorf("%s: %w", name, err)
	}

	return domain.FileInput{
		Text:      Strip(text),
		Label:     filepath.Base(name),
		SizeBytes: int64(len(content)),
		MimeType:  mimeType,
	}, nil
}

// Strip removes Markdown syntax while keeping the readable text.
func Strip(content string) string {
	content = htmlComments.ReplaceAllString(content, "")
	content = codeFence.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = horizontal.ReplaceAllString(content, "")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
