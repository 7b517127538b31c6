package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "sercha-manuals-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testRecord(ownerID string) *domain.ManualCacheRecord {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sources := []domain.ManualSource{
		{
			ID: "s1", Kind: domain.SourceFile, Label: "guide.md", Text: "hello world",
			CreatedAt: created, Metadata: &domain.SourceMetadata{SizeBytes: 11, MimeType: "text/markdown"},
		},
		{ID: "s2", Kind: domain.SourceInstruction, Label: domain.InstructionLabel, Text: "be brief", CreatedAt: created},
	}
	return &domain.ManualCacheRecord{
		Owner:          domain.ProjectOwner(ownerID),
		ManualText:     domain.FlattenSources(sources),
		ChunkCount:     2,
		EmbeddedChunks: 1,
		FileCount:      1,
		EmbedRatio:     0.5,
		UpdatedAt:      created.Add(time.Minute),
		Sources:        sources,
	}
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "manuals.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"manuals", "manual_vectors", "projects", "conversations"} {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestNewStore_ReopenKeepsVersion(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_InterfaceGetters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotNil(t, store.ManualStore())
	assert.NotNil(t, store.VectorStore())
	assert.NotNil(t, store.Directory())
}

func TestManualStore_CommitAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	ms := store.ManualStore()

	rec := testRecord("p1")
	docs := []domain.VectorDocument{{ID: "v1", Content: "hello", Embedding: []float32{1, 0}}}
	require.NoError(t, ms.Commit(ctx, rec, docs))

	got, err := ms.Get(ctx, domain.ProjectOwner("p1"))
	require.NoError(t, err)
	assert.Equal(t, rec.Owner, got.Owner)
	assert.Equal(t, rec.ManualText, got.ManualText)
	assert.Equal(t, 2, got.ChunkCount)
	assert.Equal(t, 1, got.EmbeddedChunks)
	assert.Equal(t, 1, got.FileCount)
	assert.InDelta(t, 0.5, got.EmbedRatio, 1e-9)
	assert.True(t, rec.UpdatedAt.Equal(got.UpdatedAt))
	require.Len(t, got.Sources, 2)
	assert.Equal(t, "guide.md", got.Sources[0].Label)
	require.NotNil(t, got.Sources[0].Metadata)
	assert.Equal(t, int64(11), got.Sources[0].Metadata.SizeBytes)
	assert.Nil(t, got.Sources[1].Metadata)
	assert.False(t, got.IsLegacy())
}

func TestManualStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.ManualStore().Get(context.Background(), domain.ProjectOwner("missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManualStore_CommitReplacesVectors(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	ms := store.ManualStore()

	first := []domain.VectorDocument{
		{ID: "a", Content: "old one", Embedding: []float32{1, 0}},
		{ID: "b", Content: "old two", Embedding: []float32{0, 1}},
	}
	require.NoError(t, ms.Commit(ctx, testRecord("p1"), first))

	second := []domain.VectorDocument{{ID: "c", Content: "new", Embedding: []float32{1, 1}}}
	require.NoError(t, ms.Commit(ctx, testRecord("p1"), second))

	hits, err := store.VectorStore().Query(ctx, domain.ProjectOwner("p1"), []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Content)
}

func TestManualStore_CommitRejectsMissingOwner(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.ManualStore().Commit(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	rec := testRecord("")
	err = store.ManualStore().Commit(context.Background(), rec, nil)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	untyped := testRecord("p1")
	untyped.Owner.Type = ""
	err = store.ManualStore().Commit(context.Background(), untyped, nil)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestManualStore_CommitRollsBackOnCancelledContext(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ms := store.ManualStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ms.Commit(ctx, testRecord("p1"), []domain.VectorDocument{{ID: "v", Content: "x", Embedding: []float32{1}}})
	assert.Error(t, err)

	_, err = ms.Get(context.Background(), domain.ProjectOwner("p1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManualStore_LegacyRecord(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	rec := testRecord("p1")
	rec.Sources = nil
	rec.ManualText = "=== notes.txt ===\nold text"
	require.NoError(t, store.ManualStore().Commit(ctx, rec, nil))

	var sources *string
	require.NoError(t, store.db.QueryRow("SELECT sources FROM manuals WHERE owner_id = ?", "p1").Scan(&sources))
	assert.Nil(t, sources)

	got, err := store.ManualStore().Get(ctx, domain.ProjectOwner("p1"))
	require.NoError(t, err)
	assert.True(t, got.IsLegacy())
	assert.Equal(t, rec.ManualText, got.ManualText)
}

func TestManualStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	ms := store.ManualStore()

	require.NoError(t, ms.Commit(ctx, testRecord("p1"), []domain.VectorDocument{
		{ID: "v", Content: "x", Embedding: []float32{1}},
	}))
	require.NoError(t, ms.Delete(ctx, domain.ProjectOwner("p1")))

	_, err := ms.Get(ctx, domain.ProjectOwner("p1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hits, err := store.VectorStore().Query(ctx, domain.ProjectOwner("p1"), []float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	// Deleting again is a no-op.
	assert.NoError(t, ms.Delete(ctx, domain.ProjectOwner("p1")))
}

func TestManualStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	ms := store.ManualStore()

	owners, err := ms.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, owners)

	conv := testRecord("c1")
	conv.Owner = domain.ConversationOwner("c1")
	require.NoError(t, ms.Commit(ctx, testRecord("p1"), nil))
	require.NoError(t, ms.Commit(ctx, conv, nil))

	owners, err = ms.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Owner{domain.ConversationOwner("c1"), domain.ProjectOwner("p1")}, owners)
}

func TestManualStore_OwnerTypesAreIsolated(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	ms := store.ManualStore()

	conv := testRecord("c1")
	conv.Owner = domain.ConversationOwner("c1")
	require.NoError(t, ms.Commit(ctx, conv, []domain.VectorDocument{
		{ID: "v1", Content: "secret", Embedding: []float32{1, 0}},
	}))

	guest := domain.GuestOwner("c1")
	_, err := ms.Get(ctx, guest)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hits, err := store.VectorStore().Query(ctx, guest, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	guestRec := testRecord("c1")
	guestRec.Owner = guest
	guestRec.ManualText = "guest text"
	require.NoError(t, ms.Commit(ctx, guestRec, []domain.VectorDocument{
		{ID: "v2", Content: "guest", Embedding: []float32{1, 0}},
	}))
	require.NoError(t, ms.Delete(ctx, guest))

	got, err := ms.Get(ctx, domain.ConversationOwner("c1"))
	require.NoError(t, err)
	assert.Equal(t, conv.ManualText, got.ManualText)

	hits, err = store.VectorStore().Query(ctx, domain.ConversationOwner("c1"), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "secret", hits[0].Content)

	require.NoError(t, store.VectorStore().Clear(ctx, guest))
	hits, err = store.VectorStore().Query(ctx, domain.ConversationOwner("c1"), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVectorStore_QueryRanks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vs := store.VectorStore()

	require.NoError(t, vs.Replace(ctx, domain.ProjectOwner("p1"), []domain.VectorDocument{
		{ID: "a", Content: "east", Embedding: []float32{1, 0}},
		{ID: "b", Content: "north", Embedding: []float32{0, 1}},
		{ID: "c", Content: "north-east", Embedding: []float32{1, 1}},
	}))
	require.NoError(t, vs.Replace(ctx, domain.ProjectOwner("p2"), []domain.VectorDocument{
		{ID: "z", Content: "other owner", Embedding: []float32{1, 0}},
	}))

	hits, err := vs.Query(ctx, domain.ProjectOwner("p1"), []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "east", hits[0].Content)
	assert.Equal(t, "north-east", hits[1].Content)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestVectorStore_QueryDefaultsTopK(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vs := store.VectorStore()

	docs := make([]domain.VectorDocument, 5)
	for i := range docs {
		docs[i] = domain.VectorDocument{ID: string(rune('a' + i)), Content: "c", Embedding: []float32{1, float32(i)}}
	}
	require.NoError(t, vs.Replace(ctx, domain.ProjectOwner("p1"), docs))

	hits, err := vs.Query(ctx, domain.ProjectOwner("p1"), []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestVectorStore_QueryEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vs := store.VectorStore()

	hits, err := vs.Query(ctx, domain.ProjectOwner("nobody"), []float32{1}, 3)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)

	require.NoError(t, vs.Replace(ctx, domain.ProjectOwner("p1"), []domain.VectorDocument{{ID: "a", Content: "x", Embedding: []float32{1}}}))
	hits, err = vs.Query(ctx, domain.ProjectOwner("p1"), nil, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorStore_Clear(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	vs := store.VectorStore()

	require.NoError(t, vs.Replace(ctx, domain.ProjectOwner("p1"), []domain.VectorDocument{{ID: "a", Content: "x", Embedding: []float32{1}}}))
	require.NoError(t, vs.Clear(ctx, domain.ProjectOwner("p1")))

	hits, err := vs.Query(ctx, domain.ProjectOwner("p1"), []float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDirectory_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	dir := store.Directory()

	require.NoError(t, dir.SaveProject(ctx, &domain.Project{ID: "p1", PrincipalID: "u1"}))
	require.NoError(t, dir.SaveConversation(ctx, &domain.Conversation{ID: "c1", ProjectID: "p1", PrincipalID: "u1"}))
	require.NoError(t, dir.SaveConversation(ctx, &domain.Conversation{ID: "c2", PrincipalID: "u2"}))

	p, err := dir.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.PrincipalID)

	c1, err := dir.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, c1.InProject())
	assert.Equal(t, "p1", c1.ProjectID)

	c2, err := dir.GetConversation(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, c2.InProject())
	assert.Equal(t, "u2", c2.PrincipalID)
}

func TestDirectory_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	dir := store.Directory()

	_, err := dir.GetProject(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = dir.GetConversation(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, dir.SaveProject(ctx, &domain.Project{}), domain.ErrBadRequest)
	assert.ErrorIs(t, dir.SaveConversation(ctx, nil), domain.ErrBadRequest)
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.125}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
