package driven

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// JobStore persists the run history of trigger firings and control requests.
// It doubles as the durable dedupe record for the control queue.
type JobStore interface {
	// RecordRun logs a run.
	RecordRun(ctx context.Context, run *domain.JobRun) error

	// History returns recent runs of a kind, most recent first.
	History(ctx context.Context, kind string, limit int) ([]domain.JobRun, error)

	// HasRun reports whether a run with this kind and key was recorded.
	HasRun(ctx context.Context, kind, key string) (bool, error)

	// PruneHistory keeps the most recent 'keep' runs per kind.
	PruneHistory(ctx context.Context, keep int) error
}
