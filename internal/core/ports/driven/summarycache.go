package driven

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// SummaryCache stores built summaries keyed by source id.
// Expiry policy belongs to the implementation.
type SummaryCache interface {
	// Get returns the cached summary and whether it was present.
	Get(ctx context.Context, sourceID string) (*domain.Summary, bool, error)

	// Set stores a summary.
	Set(ctx context.Context, sourceID string, s *domain.Summary) error

	// Delete evicts a summary.
	Delete(ctx context.Context, sourceID string) error
}
