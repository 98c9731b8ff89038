// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDrafts lists the drafts of one day.
	ViewDrafts
	// ViewDraft shows one draft and lets the reviewer edit it.
	ViewDraft
	// ViewSearch searches within one source.
	ViewSearch
	// ViewSources lists ingested sources.
	ViewSources
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDrafts:
		return "drafts"
	case ViewDraft:
		return "draft"
	case ViewSearch:
		return "search"
	case ViewSources:
		return "sources"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DraftsLoaded carries the drafts of one date.
type DraftsLoaded struct {
	Date   string
	Drafts []domain.Draft
	Err    error
}

// DraftSelected opens one draft in the detail view.
type DraftSelected struct {
	Draft domain.Draft
}

// DraftReviewed reports the outcome of approve, reject or edit.
type DraftReviewed struct {
	ID     int64
	Action string
	Err    error
}

// SyncCompleted reports a review sheet pull.
type SyncCompleted struct {
	Applied int
	Err     error
}

// SearchCompleted carries ranked hits back to the search view.
type SearchCompleted struct {
	SourceID string
	Query    string
	Hits     []domain.Hit
	Err      error
}

// SourcesLoaded carries the ingested sources.
type SourcesLoaded struct {
	Sources []domain.SourceStats
	Err     error
}

// SourceSelected opens the search view scoped to one source.
type SourceSelected struct {
	SourceID string
}
