package tui

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

type mockDraftService struct {
	drafts []domain.Draft
	err    error
}

func (m *mockDraftService) List(_ context.Context, _ domain.DraftFilter) ([]domain.Draft, error) {
	return m.drafts, m.err
}

func (m *mockDraftService) Get(_ context.Context, id int64) (*domain.Draft, error) {
	for i := range m.drafts {
		if m.drafts[i].ID == id {
			return &m.drafts[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDraftService) Approve(_ context.Context, _ int64, _ string) error { return m.err }

func (m *mockDraftService) Reject(_ context.Context, _ int64) error { return m.err }

func (m *mockDraftService) Edit(_ context.Context, _ int64, _ string) error { return m.err }

type mockSearchService struct {
	hits []domain.Hit
	err  error
}

func (m *mockSearchService) Search(_ context.Context, _, _ string, _ int) ([]domain.Hit, error) {
	return m.hits, m.err
}

type mockIngestService struct {
	stats []domain.SourceStats
}

func (m *mockIngestService) Ingest(_ context.Context, _, _ string) (int, error) { return 0, nil }

func (m *mockIngestService) IngestSource(_ context.Context, _ string) (int, error) { return 0, nil }

func (m *mockIngestService) EnsureIngested(_ context.Context, _ string) (int, error) { return 0, nil }

func (m *mockIngestService) Sources(_ context.Context) ([]domain.SourceStats, error) {
	return m.stats, nil
}

func newTestPorts() *Ports {
	return NewPorts(
		&mockDraftService{drafts: []domain.Draft{
			{ID: 1, Channel: "books", Format: "announce", Status: domain.DraftNew, PublishDate: "2026-01-02", PublishTime: "09:00", Text: "hello"},
		}},
		&mockSearchService{},
		&mockIngestService{stats: []domain.SourceStats{{SourceID: "doc-1", Chunks: 3}}},
	)
}
