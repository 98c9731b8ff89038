package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// Upsert writes chunks in one transaction and trims stale indices.
// Chunk indices must run 1..N in order.
func (s *chunkStore) Upsert(ctx context.Context, sourceID string, chunks []domain.Chunk) (int, error) {
	if sourceID == "" {
		return 0, fmt.Errorf("upserting chunks: empty source id: %w", domain.ErrInvalidInput)
	}
	for i, c := range chunks {
		if c.Index != i+1 {
			return 0, fmt.Errorf("upserting chunks: index %d at position %d: %w", c.Index, i, domain.ErrInvalidInput)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (source_id, chunk_index, text, embedding, content_hash, degraded, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, chunk_index) DO UPDATE SET
			text = excluded.text,
			embedding = excluded.embedding,
			content_hash = excluded.content_hash,
			degraded = excluded.degraded,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing chunk upsert: %w", err)
	}
	defer stmt.Close()

	now := formatTime(s.store.now())
	for _, c := range chunks {
		hash := c.ContentHash
		if hash == "" {
			hash = domain.ContentHash(sourceID, c.Index, c.Text)
		}
		if _, err := stmt.ExecContext(ctx, sourceID, c.Index, c.Text,
			float32SliceToBytes(c.Embedding), hash, boolToInt(c.Degraded), now); err != nil {
			return 0, fmt.Errorf("saving chunk %d: %w", c.Index, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE source_id = ? AND chunk_index > ?", sourceID, len(chunks)); err != nil {
		return 0, fmt.Errorf("trimming stale chunks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing chunks: %w", err)
	}
	return len(chunks), nil
}

// Count returns the number of chunks stored for a source.
func (s *chunkStore) Count(ctx context.Context, sourceID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE source_id = ?", sourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// List returns all chunks of a source ordered by index.
func (s *chunkStore) List(ctx context.Context, sourceID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source_id, chunk_index, text, embedding, content_hash, degraded, updated_at
		FROM chunks WHERE source_id = ?
		ORDER BY chunk_index
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// Sources returns per-source statistics ordered by source id.
func (s *chunkStore) Sources(ctx context.Context) ([]domain.SourceStats, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source_id, COUNT(*), SUM(degraded)
		FROM chunks
		GROUP BY source_id
		ORDER BY source_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var stats []domain.SourceStats //nolint:prealloc // size unknown from query
	for rows.Next() {
		var st domain.SourceStats
		if err := rows.Scan(&st.SourceID, &st.Chunks, &st.Degraded); err != nil {
			return nil, fmt.Errorf("scanning source stats: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return stats, nil
}

// Delete removes every chunk of a source.
func (s *chunkStore) Delete(ctx context.Context, sourceID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var c domain.Chunk
	var embedding []byte
	var degraded int
	var updatedAt sql.NullString

	if err := rows.Scan(&c.SourceID, &c.Index, &c.Text, &embedding,
		&c.ContentHash, &degraded, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	c.Embedding = bytesToFloat32Slice(embedding)
	c.Degraded = degraded == 1
	c.UpdatedAt = parseNullableTime(updatedAt)
	return &c, nil
}
