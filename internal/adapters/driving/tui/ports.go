// Package tui provides the interactive review terminal UI for autopost.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Drafts lists and reviews drafts.
	Drafts driving.DraftService

	// Search ranks chunks of one source.
	Search driving.SearchService

	// Ingest lists ingested sources.
	Ingest driving.IngestService

	// Sync pulls review decisions from the review sheet.
	Sync driving.SyncService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(drafts driving.DraftService, search driving.SearchService, ingest driving.IngestService) *Ports {
	return &Ports{
		Drafts: drafts,
		Search: search,
		Ingest: ingest,
	}
}

// Validate ensures all required ports are set.
// Only Drafts is required; search and sources views degrade without theirs.
func (p *Ports) Validate() error {
	if p.Drafts == nil {
		return ErrMissingDraftService
	}
	return nil
}
