package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

func TestIngestCmd_Flags(t *testing.T) {
	assert.Equal(t, "ingest [files...]", ingestCmd.Use)
	for _, name := range []string{"instruction", "mode", "ratio", "json"} {
		assert.NotNil(t, ingestCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "append", ingestCmd.Flags().Lookup("mode").DefValue)
}

func TestIngestCmd_ExtractsFiles(t *testing.T) {
	ts := setupTestServices(t)
	ts.manuals.summary = &domain.ManualSummary{
		FileCount:      1,
		ChunkCount:     3,
		EmbeddedChunks: 2,
		EmbedRatio:     0.5,
		UpdatedAt:      time.Now(),
		Sources: []domain.SourceView{
			{ID: "s1", Kind: domain.SourceFile, Label: "guide.md"},
		},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Setup\n\nRun **make**.\n"), 0o600))

	out, err := runCommand(t, "ingest", path,
		"--conversation", "c1", "--principal", "u1",
		"--instruction", "answer tersely", "--mode", "replace", "--ratio", "0.5")

	require.NoError(t, err)
	assert.Equal(t, domain.ConversationOwner("c1"), ts.manuals.gotOwner)
	req := ts.manuals.gotRequest
	assert.Equal(t, "replace", req.Mode)
	assert.Equal(t, 0.5, req.EmbedRatio)
	assert.Equal(t, "answer tersely", req.Instruction)
	require.Len(t, req.Files, 1)
	assert.Equal(t, "guide.md", req.Files[0].Label)
	assert.Equal(t, "text/markdown", req.Files[0].MimeType)
	assert.NotContains(t, req.Files[0].Text, "**")
	assert.Contains(t, req.Files[0].Text, "Run make.")

	assert.Contains(t, out, "Manual rebuilt for conversation:c1")
	assert.Contains(t, out, "Chunks: 3 (2 embedded, ratio 0.50)")
	assert.Contains(t, out, "[file] guide.md")
}

func TestIngestCmd_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		setupTestServices(t)

		_, err := runCommand(t, "ingest", filepath.Join(t.TempDir(), "nope.md"), "-c", "c1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading")
	})

	t.Run("unsupported file type", func(t *testing.T) {
		setupTestServices(t)
		path := filepath.Join(t.TempDir(), "image.png")
		require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o600))

		_, err := runCommand(t, "ingest", path, "-c", "c1")

		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("service error", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.manuals.err = domain.ErrEmbeddingUnavailable

		_, err := runCommand(t, "ingest", "-c", "c1", "-i", "note")

		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("service not configured", func(t *testing.T) {
		setupTestServices(t)
		SetServices(Services{})

		_, err := runCommand(t, "ingest", "-c", "c1", "-i", "note")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "manual service not configured")
	})
}

func TestStatusCmd(t *testing.T) {
	t.Run("no manual", func(t *testing.T) {
		setupTestServices(t)

		out, err := runCommand(t, "status", "-c", "sess-1")

		require.NoError(t, err)
		assert.Contains(t, out, "No manual for guest:sess-1")
	})

	t.Run("json output", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.manuals.status = domain.ManualStatus{HasManual: true, Stats: &domain.ManualSummary{ChunkCount: 4}}

		out, err := runCommand(t, "status", "-c", "c1", "-u", "u1", "--json")

		require.NoError(t, err)
		var status domain.ManualStatus
		require.NoError(t, json.Unmarshal([]byte(out), &status))
		assert.True(t, status.HasManual)
		assert.Equal(t, 4, status.Stats.ChunkCount)
	})
}

func TestRemoveSourceCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.manuals.status = domain.NoManual()

	out, err := runCommand(t, "remove-source", "src-1", "-c", "c1", "-u", "u1")

	require.NoError(t, err)
	assert.Equal(t, "src-1", ts.manuals.gotSourceID)
	assert.Contains(t, out, "Removed source src-1")
	assert.Contains(t, out, "No manual for conversation:c1")
}

func TestDeleteOwnerCmd(t *testing.T) {
	t.Run("deletes owner", func(t *testing.T) {
		ts := setupTestServices(t)

		out, err := runCommand(t, "delete-owner", "project", "p1")

		require.NoError(t, err)
		assert.Equal(t, []domain.Owner{domain.ProjectOwner("p1")}, ts.manuals.deleted)
		assert.Contains(t, out, "Deleted manual of project:p1")
	})

	t.Run("unknown type", func(t *testing.T) {
		ts := setupTestServices(t)

		_, err := runCommand(t, "delete-owner", "team", "t1")

		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		assert.Empty(t, ts.manuals.deleted)
	})
}

func TestOwnersCmd(t *testing.T) {
	t.Run("lists owners", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.manuals.owners = []domain.Owner{domain.ConversationOwner("c1"), domain.GuestOwner("c1")}

		out, err := runCommand(t, "owners")

		require.NoError(t, err)
		assert.Contains(t, out, "conversation:c1\n")
		assert.Contains(t, out, "guest:c1\n")
	})

	t.Run("json output", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.manuals.owners = []domain.Owner{domain.ProjectOwner("p1")}

		out, err := runCommand(t, "owners", "--json")

		require.NoError(t, err)
		var keys []string
		require.NoError(t, json.Unmarshal([]byte(out), &keys))
		assert.Equal(t, []string{"project:p1"}, keys)
	})

	t.Run("empty", func(t *testing.T) {
		setupTestServices(t)

		out, err := runCommand(t, "owners")

		require.NoError(t, err)
		assert.Contains(t, out, "No manuals stored")
	})
}
