package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for autopost resources.
	uriScheme = "autopost://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Ingested sources with chunk counts",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "drafts/{date}",
		Name:        "day-drafts",
		Description: "Drafts scheduled for one date",
		MIMEType:    "application/json",
	}, s.handleDraftsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "summaries/{sourceId}",
		Name:        "source-summary",
		Description: "Structured summary of one source",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingest == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	stats, err := s.ports.Ingest.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	type sourceInfo struct {
		ID       string `json:"id"`
		Chunks   int    `json:"chunks"`
		Degraded int    `json:"degraded"`
	}
	infos := make([]sourceInfo, len(stats))
	for i, st := range stats {
		infos[i] = sourceInfo{ID: st.SourceID, Chunks: st.Chunks, Degraded: st.Degraded}
	}
	return marshalResult(req.Params.URI, infos)
}

func (s *Server) handleDraftsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Drafts == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	date := extractSegment(req.Params.URI, "drafts/")
	if date == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	drafts, err := s.ports.Drafts.List(ctx, domain.DraftFilter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	out := make([]DraftOutput, len(drafts))
	for i := range drafts {
		out[i] = toDraftOutput(&drafts[i])
	}
	return marshalResult(req.Params.URI, out)
}

func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Summary == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sourceID := extractSegment(req.Params.URI, "summaries/")
	if sourceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	summary, err := s.ports.Summary.EnsureSummary(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("building summary: %w", err)
	}
	return marshalResult(req.Params.URI, summary)
}

// extractSegment returns the single path segment after uriScheme+prefix,
// or "" when the URI does not have that shape.
func extractSegment(uri, prefix string) string {
	full := uriScheme + prefix
	if !strings.HasPrefix(uri, full) {
		return ""
	}
	rest := strings.TrimPrefix(uri, full)
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

func marshalResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return jsonResult(uri, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}
