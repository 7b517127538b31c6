package services

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
)

func newTestIngestor() *SourceIngestor {
	i := NewSourceIngestor()
	i.newID = counterIDs()
	i.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return i
}

func TestSourceIngestor_Build(t *testing.T) {
	sources := newTestIngestor().Build([]domain.FileInput{
		{Text: "  first file  ", Label: "one.txt", SizeBytes: 14, MimeType: "text/plain"},
		{Text: "second", Label: "", SizeBytes: 6, MimeType: "text/markdown"},
	}, "  be concise ")

	require.Len(t, sources, 3)

	assert.Equal(t, "id-1", sources[0].ID)
	assert.Equal(t, domain.SourceFile, sources[0].Kind)
	assert.Equal(t, "one.txt", sources[0].Label)
	assert.Equal(t, "first file", sources[0].Text)
	require.NotNil(t, sources[0].Metadata)
	assert.Equal(t, int64(14), sources[0].Metadata.SizeBytes)
	assert.Equal(t, "text/plain", sources[0].Metadata.MimeType)

	assert.Equal(t, "File 2", sources[1].Label)

	assert.Equal(t, domain.SourceInstruction, sources[2].Kind)
	assert.Equal(t, domain.InstructionLabel, sources[2].Label)
	assert.Equal(t, "be concise", sources[2].Text)
	assert.Nil(t, sources[2].Metadata)
	assert.Equal(t, 2025, sources[2].CreatedAt.Year())
}

func TestSourceIngestor_SkipsBlankFilesWithWarning(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	sources := newTestIngestor().Build([]domain.FileInput{
		{Text: " \n ", Label: "scan.pdf"},
		{Text: "kept", Label: "ok.txt"},
	}, "")

	require.Len(t, sources, 1)
	assert.Equal(t, "ok.txt", sources[0].Label)
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), "scan.pdf")
}

func TestSourceIngestor_Empty(t *testing.T) {
	sources := newTestIngestor().Build(nil, "   ")
	assert.Empty(t, sources)
}

func TestSourceIngestor_NormalisesLabelWhitespace(t *testing.T) {
	sources := newTestIngestor().Build([]domain.FileInput{{Text: "x", Label: "my\nreport  v2.pdf"}}, "")

	require.Len(t, sources, 1)
	assert.Equal(t, "my report v2.pdf", sources[0].Label)
}
