package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Embed ratio bounds and preview length.
const (
	MinEmbedRatio = 0.2
	MaxEmbedRatio = 1.0

	// PreviewRunes is the number of runes of instruction text shown in summaries.
	PreviewRunes = 200

	// InstructionLabel labels sources created from free-text instructions.
	InstructionLabel = "User prompt"

	// LegacyLabel labels the single source synthesised for header-less legacy records.
	LegacyLabel = "legacy manual"

	headerPrefix    = "=== "
	headerSuffix    = " ==="
	sourceSeparator = "\n\n"
)

// SourceKind distinguishes uploaded files from typed instructions.
type SourceKind string

// Source kinds.
const (
	SourceFile        SourceKind = "file"
	SourceInstruction SourceKind = "instruction"
)

// IsValid returns true if the kind is recognised.
func (k SourceKind) IsValid() bool {
	return k == SourceFile || k == SourceInstruction
}

// SourceMetadata records provenance for file sources.
type SourceMetadata struct {
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType,omitempty"`
}

// ManualSource is one unit of ingested material.
// Sources are immutable once created.
type ManualSource struct {
	ID        string          `json:"id"`
	Kind      SourceKind      `json:"kind"`
	Label     string          `json:"label"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"createdAt"`
	Metadata  *SourceMetadata `json:"metadata,omitempty"`
}

// Header returns the section header written above the source in the manual text.
func (s ManualSource) Header() string {
	return FormatHeader(s.Label)
}

// FormatHeader formats a section header line for label.
func FormatHeader(label string) string {
	return headerPrefix + label + headerSuffix
}

// FlattenSources concatenates sources into the manual text.
// Each source is prefixed by its header and separated by a blank line.
func FlattenSources(sources []ManualSource) string {
	var b strings.Builder
	for i, s := range sources {
		if i > 0 {
			b.WriteString(sourceSeparator)
		}
		b.WriteString(s.Header())
		b.WriteByte('\n')
		b.WriteString(s.Text)
	}
	return b.String()
}

// CountFiles returns the number of file sources.
func CountFiles(sources []ManualSource) int {
	n := 0
	for _, s := range sources {
		if s.Kind == SourceFile {
			n++
		}
	}
	return n
}

// ManualCacheRecord is the persisted manual of one owner.
// A nil Sources slice marks a legacy record written before sources were tracked.
type ManualCacheRecord struct {
	Owner          Owner
	ManualText     string
	ChunkCount     int
	EmbeddedChunks int
	FileCount      int
	EmbedRatio     float64
	UpdatedAt      time.Time
	Sources        []ManualSource
}

// IsLegacy reports whether the record predates explicit source tracking.
func (r *ManualCacheRecord) IsLegacy() bool {
	return r.Sources == nil
}

// Validate checks the record's counting invariants.
func (r *ManualCacheRecord) Validate() error {
	switch {
	case len(r.Sources) == 0:
		return fmt.Errorf("record without sources: %w", ErrBadRequest)
	case r.ChunkCount <= 0:
		return fmt.Errorf("record without chunks: %w", ErrBadRequest)
	case r.EmbeddedChunks <= 0 || r.EmbeddedChunks > r.ChunkCount:
		return fmt.Errorf("embedded chunks %d out of range 1..%d: %w", r.EmbeddedChunks, r.ChunkCount, ErrBadRequest)
	case r.EmbedRatio < MinEmbedRatio || r.EmbedRatio > MaxEmbedRatio:
		return fmt.Errorf("embed ratio %v out of range: %w", r.EmbedRatio, ErrBadRequest)
	case r.FileCount != CountFiles(r.Sources):
		return fmt.Errorf("file count %d does not match sources: %w", r.FileCount, ErrBadRequest)
	}
	return nil
}

// Summary returns the externally visible view of the record.
func (r *ManualCacheRecord) Summary() ManualSummary {
	views := make([]SourceView, 0, len(r.Sources))
	for _, s := range r.Sources {
		v := SourceView{
			ID:        s.ID,
			Kind:      s.Kind,
			Label:     s.Label,
			CreatedAt: s.CreatedAt,
		}
		if s.Kind == SourceInstruction {
			v.Preview = Preview(s.Text, PreviewRunes)
		}
		views = append(views, v)
	}
	return ManualSummary{
		FileCount:      r.FileCount,
		ChunkCount:     r.ChunkCount,
		EmbeddedChunks: r.EmbeddedChunks,
		UpdatedAt:      r.UpdatedAt,
		EmbedRatio:     r.EmbedRatio,
		Sources:        views,
	}
}

// Preview returns at most n runes of text.
func Preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}

// SourceView is a source as reported to callers, without its full text.
type SourceView struct {
	ID        string     `json:"id"`
	Kind      SourceKind `json:"kind"`
	Label     string     `json:"label"`
	CreatedAt time.Time  `json:"createdAt"`
	Preview   string     `json:"preview,omitempty"`
}

// ManualSummary describes the outcome of a rebuild.
type ManualSummary struct {
	FileCount      int          `json:"fileCount"`
	ChunkCount     int          `json:"chunkCount"`
	EmbeddedChunks int          `json:"embeddedChunks"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	EmbedRatio     float64      `json:"embedRatio"`
	Sources        []SourceView `json:"sources"`
}

// ManualStatus reports whether an owner has a manual.
type ManualStatus struct {
	HasManual bool           `json:"hasManual"`
	Stats     *ManualSummary `json:"stats,omitempty"`
}

// NoManual is the status of an owner without a manual.
func NoManual() ManualStatus {
	return ManualStatus{}
}

// StatusOf returns the status for an existing record.
func StatusOf(r *ManualCacheRecord) ManualStatus {
	s := r.Summary()
	return ManualStatus{HasManual: true, Stats: &s}
}

// MergeMode selects how new sources combine with existing ones.
type MergeMode string

// Merge modes.
const (
	MergeAppend  MergeMode = "append"
	MergeReplace MergeMode = "replace"
)

// ParseMergeMode parses a case-insensitive mode. Empty means append.
func ParseMergeMode(s string) (MergeMode, error) {
	switch MergeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MergeAppend:
		return MergeAppend, nil
	case MergeReplace:
		return MergeReplace, nil
	default:
		return "", fmt.Errorf("mode %q: %w", s, ErrBadRequest)
	}
}

// MergeSources combines existing and new sources according to mode.
// An empty result is a bad request.
func MergeSources(mode MergeMode, existing, added []ManualSource) ([]ManualSource, error) {
	var merged []ManualSource
	switch mode {
	case MergeReplace:
		merged = append(merged, added...)
	case MergeAppend, "":
		merged = make([]ManualSource, 0, len(existing)+len(added))
		merged = append(merged, existing...)
		merged = append(merged, added...)
	default:
		return nil, fmt.Errorf("mode %q: %w", mode, ErrBadRequest)
	}
	if len(merged) == 0 {
		return nil, fmt.Errorf("no sources to persist: %w", ErrBadRequest)
	}
	return merged, nil
}

// RemoveSource returns sources without the source with id.
// The second result is false when no source matched.
func RemoveSource(sources []ManualSource, id string) ([]ManualSource, bool) {
	out := make([]ManualSource, 0, len(sources))
	for _, s := range sources {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out, len(out) != len(sources)
}

// ClampEmbedRatio bounds ratio to [MinEmbedRatio, MaxEmbedRatio].
// Zero, negative-zero and NaN fall back to def, which is clamped as well.
func ClampEmbedRatio(ratio, def float64) float64 {
	if math.IsNaN(ratio) || ratio == 0 {
		if math.IsNaN(def) || def == 0 {
			return MaxEmbedRatio
		}
		ratio = def
	}
	return math.Min(MaxEmbedRatio, math.Max(MinEmbedRatio, ratio))
}
