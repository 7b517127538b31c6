// Package chunker provides a fixed-size overlapping text chunker.
package chunker

import (
	"strings"

	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.TextSplitter = (*Processor)(nil)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 100

// Processor splits text into fixed-size overlapping windows.
// Window size and overlap are measured in runes so multi-byte characters are never cut.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
// An overlap at or above the chunk size is kept; the window then advances one rune at a time.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the window size in runes.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the overlap in runes.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split cuts text into windows of chunkSize runes starting every
// max(1, chunkSize-overlap) runes. Each window is trimmed; empty windows are dropped.
func (p *Processor) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	step := p.chunkSize - p.overlap
	if step < 1 {
		step = 1
	}

	chunks := make([]string, 0, n/step+1)
	for start := 0; start < n; start += step {
		end := start + p.chunkSize
		if end > n {
			end = n
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}
