package driven

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// ChunkStore persists chunks and their vectors keyed by (source_id, chunk_index).
type ChunkStore interface {
	// Upsert writes the chunks for a source. A conflicting (source, index)
	// overwrites text, vector and hash. Indices beyond the last written
	// chunk are removed so the stored set stays 1..N.
	// Returns the number of chunks persisted.
	Upsert(ctx context.Context, sourceID string, chunks []domain.Chunk) (int, error)

	// Count returns the number of chunks stored for a source.
	Count(ctx context.Context, sourceID string) (int, error)

	// List returns all chunks of a source ordered by index.
	List(ctx context.Context, sourceID string) ([]domain.Chunk, error)

	// Sources returns per-source statistics for every stored source.
	Sources(ctx context.Context) ([]domain.SourceStats, error)

	// Delete removes every chunk of a source.
	Delete(ctx context.Context, sourceID string) error
}
