package driving

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// IngestService loads source text into the chunk store.
type IngestService interface {
	// Ingest chunks, embeds and stores text for a source.
	// Returns the number of chunks persisted.
	Ingest(ctx context.Context, sourceID, text string) (int, error)

	// IngestSource fetches the source text upstream and ingests it.
	IngestSource(ctx context.Context, sourceID string) (int, error)

	// EnsureIngested ingests the source only when nothing is stored for it.
	// Returns the number of chunks stored either way.
	EnsureIngested(ctx context.Context, sourceID string) (int, error)

	// Sources lists what is stored.
	Sources(ctx context.Context) ([]domain.SourceStats, error)
}
