package driving

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// PlannerService generates a day's drafts for a channel.
type PlannerService interface {
	// GenerateDay renders every slot of the channel for date and upserts the drafts.
	// Returns the number of drafts written.
	GenerateDay(ctx context.Context, channel, date string) (int, error)
}

// DraftService exposes drafts to local reviewers (CLI, TUI, MCP).
type DraftService interface {
	// List returns drafts matching the filter.
	List(ctx context.Context, filter domain.DraftFilter) ([]domain.Draft, error)

	// Get returns one draft.
	Get(ctx context.Context, id int64) (*domain.Draft, error)

	// Approve approves a draft on behalf of reviewer.
	Approve(ctx context.Context, id int64, reviewer string) error

	// Reject rejects a draft.
	Reject(ctx context.Context, id int64) error

	// Edit replaces the reviewer text of a draft without changing its status.
	Edit(ctx context.Context, id int64, text string) error
}

// SyncService merges the review surface into the draft store.
type SyncService interface {
	// SyncAll pulls every row and applies it. Returns the number applied.
	SyncAll(ctx context.Context) (int, error)
}

// ControlService processes the control queue.
type ControlService interface {
	// Poll processes pending control requests once. Returns the number processed.
	Poll(ctx context.Context) (int, error)
}
