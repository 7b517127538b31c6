package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ManualStore = (*manualStore)(nil)

// manualStore wraps Store to implement ManualStore.
type manualStore struct {
	store *Store
}

func (m *manualStore) Get(ctx context.Context, owner domain.Owner) (*domain.ManualCacheRecord, error) {
	row := m.store.db.QueryRowContext(ctx, `
		SELECT owner_id, owner_type, manual_text, chunk_count, embedded_chunks,
		       file_count, embed_ratio, sources, updated_at
		FROM manuals WHERE owner_type = ? AND owner_id = ?
	`, string(owner.Type), owner.ID)
	return scanManual(row)
}

// Commit upserts the record and replaces its vectors in a single transaction.
func (m *manualStore) Commit(ctx context.Context, record *domain.ManualCacheRecord, docs []domain.VectorDocument) error {
	if record == nil {
		return fmt.Errorf("commit without record: %w", domain.ErrBadRequest)
	}
	if err := record.Owner.Validate(); err != nil {
		return err
	}

	sources, err := encodeSources(record.Sources)
	if err != nil {
		return err
	}

	tx, err := m.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO manuals (owner_id, owner_type, manual_text, chunk_count, embedded_chunks,
		                     file_count, embed_ratio, sources, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_type, owner_id) DO UPDATE SET
			manual_text = excluded.manual_text,
			chunk_count = excluded.chunk_count,
			embedded_chunks = excluded.embedded_chunks,
			file_count = excluded.file_count,
			embed_ratio = excluded.embed_ratio,
			sources = excluded.sources,
			updated_at = excluded.updated_at
	`,
		record.Owner.ID,
		string(record.Owner.Type),
		record.ManualText,
		record.ChunkCount,
		record.EmbeddedChunks,
		record.FileCount,
		record.EmbedRatio,
		sources,
		formatTime(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving manual: %w", err)
	}

	if err := replaceVectors(ctx, tx, record.Owner, docs); err != nil {
		return err
	}

	return tx.Commit()
}

func (m *manualStore) Delete(ctx context.Context, owner domain.Owner) error {
	tx, err := m.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := clearVectors(ctx, tx, owner); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM manuals WHERE owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID,
	); err != nil {
		return fmt.Errorf("deleting manual: %w", err)
	}

	return tx.Commit()
}

func (m *manualStore) List(ctx context.Context) ([]domain.Owner, error) {
	rows, err := m.store.db.QueryContext(ctx, "SELECT owner_id, owner_type FROM manuals ORDER BY owner_type, owner_id")
	if err != nil {
		return nil, fmt.Errorf("listing manuals: %w", err)
	}
	defer rows.Close()

	owners := make([]domain.Owner, 0)
	for rows.Next() {
		var id, typ string
		if err := rows.Scan(&id, &typ); err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		owners = append(owners, domain.Owner{ID: id, Type: domain.OwnerType(typ)})
	}
	return owners, rows.Err()
}

// encodeSources returns nil for legacy records so the column stays NULL.
func encodeSources(sources []domain.ManualSource) (sql.NullString, error) {
	if sources == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(sources)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding sources: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanManual(row *sql.Row) (*domain.ManualCacheRecord, error) {
	var (
		r         domain.ManualCacheRecord
		ownerType string
		sources   sql.NullString
		updatedAt string
	)

	err := row.Scan(
		&r.Owner.ID,
		&ownerType,
		&r.ManualText,
		&r.ChunkCount,
		&r.EmbeddedChunks,
		&r.FileCount,
		&r.EmbedRatio,
		&sources,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning manual: %w", err)
	}

	r.Owner.Type = domain.OwnerType(ownerType)
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if sources.Valid {
		r.Sources = make([]domain.ManualSource, 0)
		if err := json.Unmarshal([]byte(sources.String), &r.Sources); err != nil {
			return nil, fmt.Errorf("decoding sources: %w", err)
		}
	}

	return &r, nil
}
