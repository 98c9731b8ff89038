package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

// Ensure DraftService implements the interface.
var _ driving.DraftService = (*DraftService)(nil)

// DraftService lets local reviewers act on drafts.
type DraftService struct {
	drafts driven.DraftStore
	now    func() time.Time
}

// NewDraftService creates a draft service.
func NewDraftService(drafts driven.DraftStore) *DraftService {
	return &DraftService{drafts: drafts, now: time.Now}
}

// List returns drafts matching the filter.
func (s *DraftService) List(ctx context.Context, filter domain.DraftFilter) ([]domain.Draft, error) {
	return s.drafts.List(ctx, filter)
}

// Get returns one draft.
func (s *DraftService) Get(ctx context.Context, id int64) (*domain.Draft, error) {
	return s.drafts.Get(ctx, id)
}

// Approve approves a draft, keeping any edits.
func (s *DraftService) Approve(ctx context.Context, id int64, reviewer string) error {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return err
	}
	reviewer = strings.TrimSpace(reviewer)
	if reviewer == "" {
		return fmt.Errorf("approve %d: reviewer required: %w", id, domain.ErrInvalidInput)
	}
	return s.drafts.ApplyReview(ctx, id, domain.DraftApproved, d.EditedText, reviewer, s.now())
}

// Reject rejects a draft.
func (s *DraftService) Reject(ctx context.Context, id int64) error {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.drafts.ApplyReview(ctx, id, domain.DraftRejected, d.EditedText, "", s.now())
}

// Edit replaces the reviewer text. Sent and rejected drafts are final.
func (s *DraftService) Edit(ctx context.Context, id int64, text string) error {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return err
	}
	if d.Status.IsTerminal() {
		return fmt.Errorf("edit %d (%s): %w", id, d.Status, domain.ErrInvalidTransition)
	}
	return s.drafts.ApplyReview(ctx, id, d.Status, strings.TrimSpace(text), "", s.now())
}
