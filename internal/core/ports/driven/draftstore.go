package driven

import (
	"context"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// DraftStore persists drafts. At most one draft exists per
// (channel, publish_date, format).
type DraftStore interface {
	// Upsert writes a draft and returns its id. When d.ID is set and the
	// row exists it is updated by id; otherwise the natural key decides
	// between insert and in-place update.
	Upsert(ctx context.Context, d *domain.Draft) (int64, error)

	// Get returns a draft by id, or domain.ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.Draft, error)

	// Find returns the draft for a natural key, or domain.ErrNotFound.
	Find(ctx context.Context, key domain.DraftKey) (*domain.Draft, error)

	// List returns drafts matching the filter, ordered by date, time and id.
	List(ctx context.Context, filter domain.DraftFilter) ([]domain.Draft, error)

	// ApplyReview merges a reviewer's decision. approvedBy and at are only
	// stored when status is approved. Returns domain.ErrInvalidTransition
	// when the lifecycle forbids the change.
	ApplyReview(ctx context.Context, id int64, status domain.DraftStatus, editedText, approvedBy string, at time.Time) error

	// MarkSent moves an approved draft to sent.
	MarkSent(ctx context.Context, id int64, at time.Time) error
}
