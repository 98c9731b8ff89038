package mcp

import (
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Search ranks chunks of one source.
	Search driving.SearchService

	// Summary builds and caches structured summaries.
	Summary driving.SummaryService

	// Ingest lists ingested sources.
	Ingest driving.IngestService

	// Drafts lists drafts.
	Drafts driving.DraftService

	// Planner generates days of drafts.
	Planner driving.PlannerService
}

// Validate ensures all required ports are set.
// Only Search is required; tools backed by a nil port report unavailability.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
