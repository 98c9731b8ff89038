package domain

import (
	"strings"
	"time"
)

// DraftStatus is a position in the draft review lifecycle.
type DraftStatus string

// Draft lifecycle states.
const (
	// DraftNew is a freshly generated draft awaiting review.
	DraftNew DraftStatus = "new"

	// DraftApproved has been approved by a reviewer and may be published.
	DraftApproved DraftStatus = "approved"

	// DraftSent has been handed to the sender.
	DraftSent DraftStatus = "sent"

	// DraftRejected was turned down by a reviewer.
	DraftRejected DraftStatus = "rejected"
)

// ParseDraftStatus lowercases and trims s and reports whether it names a known status.
func ParseDraftStatus(s string) (DraftStatus, bool) {
	st := DraftStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case DraftNew, DraftApproved, DraftSent, DraftRejected:
		return st, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s DraftStatus) IsTerminal() bool {
	return s == DraftSent || s == DraftRejected
}

// String returns the string representation.
func (s DraftStatus) String() string {
	return string(s)
}

// CanTransition reports whether a draft may move from one status to another.
// Re-applying the current status is allowed and is a no-op.
func CanTransition(from, to DraftStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case DraftNew:
		return to == DraftApproved || to == DraftRejected
	case DraftApproved:
		return to == DraftSent || to == DraftRejected
	default:
		return false
	}
}

// Draft is one generated candidate post.
type Draft struct {
	// ID is the store-assigned identifier.
	ID int64

	// Channel is the human-readable channel name.
	Channel string

	// Format is the post format (announce, insight, ...).
	Format string

	// SourceID is the source the post was generated from.
	SourceID string

	// Text is the generated body.
	Text string

	// EditedText is the reviewer's replacement text, if any.
	EditedText string

	// Status is the lifecycle state.
	Status DraftStatus

	// PublishDate is the local publish date, YYYY-MM-DD.
	PublishDate string

	// PublishTime is the local publish time, HH:MM.
	PublishTime string

	// ApprovedBy names the reviewer who approved the draft.
	ApprovedBy string

	// ApprovedAt is the server-side approval time.
	ApprovedAt time.Time

	// SentAt is when the draft was handed to the sender.
	SentAt time.Time

	// CreatedAt is when the draft row was first written.
	CreatedAt time.Time
}

// EffectiveText returns the edited text when present, otherwise the generated text.
func (d *Draft) EffectiveText() string {
	if t := strings.TrimSpace(d.EditedText); t != "" {
		return t
	}
	return strings.TrimSpace(d.Text)
}

// DraftKey is the natural key of a draft.
type DraftKey struct {
	Channel string
	Date    string
	Format  string
}

// Key returns the draft's natural key.
func (d *Draft) Key() DraftKey {
	return DraftKey{Channel: d.Channel, Date: d.PublishDate, Format: d.Format}
}

// DraftFilter narrows a draft listing. Empty fields match everything.
type DraftFilter struct {
	Channel string
	Date    string
	Status  DraftStatus
	Limit   int
}

// SheetRow is a validated row from the review surface's drafts table.
type SheetRow struct {
	ID         int64
	Date       string
	Time       string
	Channel    string
	Format     string
	SourceID   string
	Text       string
	Status     DraftStatus
	EditedText string
	ApprovedBy string
}

// Matches reports whether the row addresses the given natural key.
func (r SheetRow) Matches(k DraftKey) bool {
	return r.Channel == k.Channel && r.Date == k.Date && r.Format == k.Format
}
