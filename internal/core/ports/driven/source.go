package driven

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// SourceFetcher downloads the raw text of a source.
type SourceFetcher interface {
	// FetchText returns the text of the source, normalised to plain text.
	FetchText(ctx context.Context, sourceID string) (string, error)
}

// SourceDiscoverer lists source files that exist upstream.
type SourceDiscoverer interface {
	// Discover returns the files found in the configured location.
	Discover(ctx context.Context) ([]domain.CatalogEntry, error)
}
