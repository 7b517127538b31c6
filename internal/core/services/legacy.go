package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// headerPattern matches one "=== label ===" header line.
var headerPattern = regexp.MustCompile(`(?m)^=== (.+?) ===$`)

// instructionTokens mark a header as belonging to an instruction source.
var instructionTokens = []string{"prompt", "instruction"}

// reconstructSources derives a source list from the manual text of a record
// written before sources were tracked. Text between consecutive headers
// becomes one source. Without headers the whole text is one instruction
// source, as is any text ahead of the first header. Boundaries depend only
// on manualText; ids are fresh on every call.
func reconstructSources(manualText string, updatedAt time.Time, newID func() string) []domain.ManualSource {
	matches := headerPattern.FindAllStringSubmatchIndex(manualText, -1)
	if len(matches) == 0 {
		text := strings.TrimSpace(manualText)
		if text == "" {
			return []domain.ManualSource{}
		}
		return []domain.ManualSource{{
			ID:        newID(),
			Kind:      domain.SourceInstruction,
			Label:     domain.LegacyLabel,
			Text:      text,
			CreatedAt: updatedAt,
		}}
	}

	sources := make([]domain.ManualSource, 0, len(matches)+1)
	if preamble := strings.TrimSpace(manualText[:matches[0][0]]); preamble != "" {
		sources = append(sources, domain.ManualSource{
			ID:        newID(),
			Kind:      domain.SourceInstruction,
			Label:     domain.LegacyLabel,
			Text:      preamble,
			CreatedAt: updatedAt,
		})
	}
	for i, m := range matches {
		label := manualText[m[2]:m[3]]
		end := len(manualText)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sources = append(sources, domain.ManualSource{
			ID:        newID(),
			Kind:      classifyHeader(label),
			Label:     label,
			Text:      strings.TrimSpace(manualText[m[1]:end]),
			CreatedAt: updatedAt,
		})
	}
	return sources
}

func classifyHeader(label string) domain.SourceKind {
	lower := strings.ToLower(label)
	for _, token := range instructionTokens {
		if strings.Contains(lower, token) {
			return domain.SourceInstruction
		}
	}
	return domain.SourceFile
}
