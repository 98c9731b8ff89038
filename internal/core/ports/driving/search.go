package driving

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// SearchService provides semantic retrieval within one source.
type SearchService interface {
	// Search returns at most topK chunks of the source, most similar first.
	Search(ctx context.Context, sourceID, query string, topK int) ([]domain.Hit, error)
}

// SummaryService builds structured summaries.
type SummaryService interface {
	// EnsureSummary returns the cached summary or builds one.
	EnsureSummary(ctx context.Context, sourceID string) (*domain.Summary, error)

	// Invalidate drops a cached summary.
	Invalidate(ctx context.Context, sourceID string) error
}

// RenderService turns a summary into a finished post.
type RenderService interface {
	// Render writes one post. Generation failures yield a placeholder, not an error.
	Render(ctx context.Context, sourceID, format, channel string) (domain.Rendered, error)
}
