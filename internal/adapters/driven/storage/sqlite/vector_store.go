package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorStore = (*vectorStore)(nil)

// vectorStore wraps Store to implement VectorStore.
type vectorStore struct {
	store *Store
}

func (v *vectorStore) Replace(ctx context.Context, owner domain.Owner, docs []domain.VectorDocument) error {
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := replaceVectors(ctx, tx, owner, docs); err != nil {
		return err
	}
	return tx.Commit()
}

func (v *vectorStore) Clear(ctx context.Context, owner domain.Owner) error {
	_, err := v.store.db.ExecContext(ctx,
		"DELETE FROM manual_vectors WHERE owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID,
	)
	if err != nil {
		return fmt.Errorf("clearing vectors: %w", err)
	}
	return nil
}

// Query loads every document of the owner and ranks them by cosine similarity.
func (v *vectorStore) Query(ctx context.Context, owner domain.Owner, embedding []float32, topK int) ([]domain.VectorHit, error) {
	if topK <= 0 {
		topK = driven.DefaultTopK
	}
	if len(embedding) == 0 {
		return []domain.VectorHit{}, nil
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT id, content, embedding FROM manual_vectors
		WHERE owner_type = ? AND owner_id = ? ORDER BY position
	`, string(owner.Type), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var docs []domain.VectorDocument
	for rows.Next() {
		var (
			d    domain.VectorDocument
			blob []byte
		)
		if err := rows.Scan(&d.ID, &d.Content, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		d.Embedding = bytesToFloat32Slice(blob)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return domain.RankTopK(docs, embedding, topK), nil
}

// replaceVectors deletes and re-inserts the owner's vectors inside tx.
func replaceVectors(ctx context.Context, tx *sql.Tx, owner domain.Owner, docs []domain.VectorDocument) error {
	if err := clearVectors(ctx, tx, owner); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO manual_vectors (id, owner_type, owner_id, position, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, d := range docs {
		if _, err := stmt.ExecContext(ctx, d.ID, string(owner.Type), owner.ID, i, d.Content, float32SliceToBytes(d.Embedding)); err != nil {
			return fmt.Errorf("inserting vector %s: %w", d.ID, err)
		}
	}
	return nil
}

func clearVectors(ctx context.Context, tx *sql.Tx, owner domain.Owner) error {
	_, err := tx.ExecContext(ctx,
		"DELETE FROM manual_vectors WHERE owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID,
	)
	if err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	return nil
}
