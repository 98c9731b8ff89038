package mcp

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits      []domain.Hit
	err       error
	lastTopK  int
	lastQuery string
}

func (m *mockSearchService) Search(_ context.Context, _, query string, topK int) ([]domain.Hit, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.hits, m.err
}

// mockSummaryService is a mock implementation of driving.SummaryService.
type mockSummaryService struct {
	summary     *domain.Summary
	err         error
	invalidated []string
}

func (m *mockSummaryService) EnsureSummary(_ context.Context, _ string) (*domain.Summary, error) {
	return m.summary, m.err
}

func (m *mockSummaryService) Invalidate(_ context.Context, sourceID string) error {
	m.invalidated = append(m.invalidated, sourceID)
	return nil
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	stats []domain.SourceStats
	err   error
}

func (m *mockIngestService) Ingest(_ context.Context, _, _ string) (int, error) { return 0, m.err }

func (m *mockIngestService) IngestSource(_ context.Context, _ string) (int, error) { return 0, m.err }

func (m *mockIngestService) EnsureIngested(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockIngestService) Sources(_ context.Context) ([]domain.SourceStats, error) {
	return m.stats, m.err
}

// mockDraftService is a mock implementation of driving.DraftService.
type mockDraftService struct {
	drafts     []domain.Draft
	err        error
	lastFilter domain.DraftFilter
}

func (m *mockDraftService) List(_ context.Context, filter domain.DraftFilter) ([]domain.Draft, error) {
	m.lastFilter = filter
	return m.drafts, m.err
}

func (m *mockDraftService) Get(_ context.Context, _ int64) (*domain.Draft, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDraftService) Approve(_ context.Context, _ int64, _ string) error { return m.err }

func (m *mockDraftService) Reject(_ context.Context, _ int64) error { return m.err }

func (m *mockDraftService) Edit(_ context.Context, _ int64, _ string) error { return m.err }

// mockPlannerService is a mock implementation of driving.PlannerService.
type mockPlannerService struct {
	created int
	err     error
	calls   []string
}

func (m *mockPlannerService) GenerateDay(_ context.Context, channel, date string) (int, error) {
	m.calls = append(m.calls, channel+"@"+date)
	return m.created, m.err
}
