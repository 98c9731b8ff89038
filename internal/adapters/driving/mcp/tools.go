package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// defaultLimit is the number of hits returned when the caller sets none.
const defaultLimit = 8

// SearchInput is the input schema for the search_source tool.
type SearchInput struct {
	SourceID string `json:"source_id" jsonschema:"identifier of the ingested source (e.g. Drive file id)"`
	Query    string `json:"query" jsonschema:"text to search for"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 8)"`
}

// SearchOutput is the output schema for the search_source tool.
type SearchOutput struct {
	Results []HitOutput `json:"results"`
	Count   int         `json:"count"`
}

// HitOutput is one ranked chunk.
type HitOutput struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// SummaryInput is the input schema for the get_summary tool.
type SummaryInput struct {
	SourceID string `json:"source_id" jsonschema:"identifier of the ingested source"`
	Refresh  bool   `json:"refresh,omitempty" jsonschema:"discard the cached summary and rebuild it"`
}

// ListDraftsInput is the input schema for the list_drafts tool.
type ListDraftsInput struct {
	Date    string `json:"date,omitempty" jsonschema:"publish date YYYY-MM-DD"`
	Channel string `json:"channel,omitempty" jsonschema:"channel name"`
	Status  string `json:"status,omitempty" jsonschema:"new, approved, sent or rejected"`
}

// ListDraftsOutput is the output schema for the list_drafts tool.
type ListDraftsOutput struct {
	Drafts []DraftOutput `json:"drafts"`
	Count  int           `json:"count"`
}

// DraftOutput is one draft as exposed to assistants.
type DraftOutput struct {
	ID       int64  `json:"id"`
	Channel  string `json:"channel"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Format   string `json:"format"`
	SourceID string `json:"source_id"`
	Status   string `json:"status"`
	Text     string `json:"text"`
}

// GenerateDayInput is the input schema for the generate_day tool.
type GenerateDayInput struct {
	Channel string `json:"channel" jsonschema:"channel name or alias"`
	Date    string `json:"date" jsonschema:"publish date YYYY-MM-DD"`
}

// GenerateDayOutput is the output schema for the generate_day tool.
type GenerateDayOutput struct {
	Created int    `json:"created"`
	Message string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_source",
		Description: "Search the chunks of one ingested book by semantic similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get the structured summary of an ingested book",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_drafts",
		Description: "List generated post drafts, optionally filtered by date, channel and status",
	}, s.handleListDrafts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_day",
		Description: "Generate one draft per schedule slot of a channel for a date",
	}, s.handleGenerateDay)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	hits, err := s.ports.Search.Search(ctx, input.SourceID, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]HitOutput, len(hits)),
		Count:   len(hits),
	}
	for i, h := range hits {
		output.Results[i] = HitOutput{Index: h.Index, Score: h.Score, Text: h.Text}
	}
	return nil, output, nil
}

func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (*mcp.CallToolResult, domain.Summary, error) {
	if s.ports.Summary == nil {
		return nil, domain.Summary{}, errToolUnavailable
	}
	if strings.TrimSpace(input.SourceID) == "" {
		return nil, domain.Summary{}, fmt.Errorf("source_id: %w", domain.ErrInvalidInput)
	}

	if input.Refresh {
		if err := s.ports.Summary.Invalidate(ctx, input.SourceID); err != nil {
			return nil, domain.Summary{}, err
		}
	}

	summary, err := s.ports.Summary.EnsureSummary(ctx, input.SourceID)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	return nil, *summary, nil
}

func (s *Server) handleListDrafts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDraftsInput,
) (*mcp.CallToolResult, ListDraftsOutput, error) {
	if s.ports.Drafts == nil {
		return nil, ListDraftsOutput{}, errToolUnavailable
	}

	filter := domain.DraftFilter{Date: input.Date, Channel: input.Channel}
	if input.Status != "" {
		status, ok := domain.ParseDraftStatus(input.Status)
		if !ok {
			return nil, ListDraftsOutput{}, fmt.Errorf("status %q: %w", input.Status, domain.ErrInvalidInput)
		}
		filter.Status = status
	}

	drafts, err := s.ports.Drafts.List(ctx, filter)
	if err != nil {
		return nil, ListDraftsOutput{}, err
	}

	output := ListDraftsOutput{
		Drafts: make([]DraftOutput, len(drafts)),
		Count:  len(drafts),
	}
	for i := range drafts {
		output.Drafts[i] = toDraftOutput(&drafts[i])
	}
	return nil, output, nil
}

func (s *Server) handleGenerateDay(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateDayInput,
) (*mcp.CallToolResult, GenerateDayOutput, error) {
	if s.ports.Planner == nil {
		return nil, GenerateDayOutput{}, errToolUnavailable
	}

	n, err := s.ports.Planner.GenerateDay(ctx, input.Channel, input.Date)
	if err != nil {
		return nil, GenerateDayOutput{}, err
	}
	return nil, GenerateDayOutput{
		Created: n,
		Message: fmt.Sprintf("created %d drafts", n),
	}, nil
}

func toDraftOutput(d *domain.Draft) DraftOutput {
	return DraftOutput{
		ID:       d.ID,
		Channel:  d.Channel,
		Date:     d.PublishDate,
		Time:     d.PublishTime,
		Format:   d.Format,
		SourceID: d.SourceID,
		Status:   d.Status.String(),
		Text:     d.EffectiveText(),
	}
}
