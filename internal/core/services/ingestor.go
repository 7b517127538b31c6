package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
)

// SourceIngestor turns extracted file text and instructions into manual sources.
type SourceIngestor struct {
	newID func() string
	now   func() time.Time
}

// NewSourceIngestor creates a new source ingestor.
func NewSourceIngestor() *SourceIngestor {
	return &SourceIngestor{
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Build returns one file source per non-blank file and, when instruction is
// non-blank, one instruction source after them. Blank files are skipped
// with a warning. The result may be empty.
func (i *SourceIngestor) Build(files []domain.FileInput, instruction string) []domain.ManualSource {
	now := i.now().UTC()
	sources := make([]domain.ManualSource, 0, len(files)+1)

	for n, f := range files {
		label := strings.Join(strings.Fields(f.Label), " ")
		if label == "" {
			label = fmt.Sprintf("File %d", n+1)
		}
		text := strings.TrimSpace(f.Text)
		if text == "" {
			logger.Warnw("skipping file with no extractable text", "label", label, "mimeType", f.MimeType)
			continue
		}
		sources = append(sources, domain.ManualSource{
			ID:        i.newID(),
			Kind:      domain.SourceFile,
			Label:     label,
			Text:      text,
			CreatedAt: now,
			Metadata: &domain.SourceMetadata{
				SizeBytes: f.SizeBytes,
				MimeType:  f.MimeType,
			},
		})
	}

	if text := strings.TrimSpace(instruction); text != "" {
		sources = append(sources, domain.ManualSource{
			ID:        i.newID(),
			Kind:      domain.SourceInstruction,
			Label:     domain.InstructionLabel,
			Text:      text,
			CreatedAt: now,
		})
	}

	logger.Debug("Built %d sources from %d files", len(sources), len(files))
	return sources
}
