package services

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/storage/sqlite"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// --- Shared mock implementations for service tests ---

// vocabulary is the feature space of mockEmbedder.
var vocabulary = []string{"habit", "identity", "system", "goal", "cue", "reward", "focus", "deep"}

// keywordVector counts vocabulary words in text.
func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(vocabulary))
	for i, w := range vocabulary {
		v[i] = float32(strings.Count(lower, w))
	}
	return v
}

// mockEmbedder embeds by keyword counts.
type mockEmbedder struct {
	mu       sync.Mutex
	outcome  domain.Outcome
	degraded map[string]bool
	err      error
	calls    [][]string
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) (driven.EmbedResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string(nil), texts...))
	if m.err != nil {
		return driven.EmbedResult{}, m.err
	}
	res := driven.EmbedResult{Outcome: m.outcome}
	for _, t := range texts {
		if m.degraded[t] {
			res.Vectors = append(res.Vectors, make([]float32, len(vocabulary)))
			res.Degraded = append(res.Degraded, true)
			continue
		}
		res.Vectors = append(res.Vectors, keywordVector(t))
		res.Degraded = append(res.Degraded, false)
	}
	return res, nil
}

func (m *mockEmbedder) Dimensions() int   { return len(vocabulary) }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) embeddedTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		out = append(out, c...)
	}
	return out
}

// mockGenerator returns a canned response and records requests.
type mockGenerator struct {
	mu       sync.Mutex
	text     string
	outcome  domain.Outcome
	err      error
	requests []driven.GenerateRequest
}

func (m *mockGenerator) Generate(_ context.Context, req driven.GenerateRequest) (driven.GenerateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return driven.GenerateResult{Outcome: domain.OutcomeFatal}, m.err
	}
	return driven.GenerateResult{Text: m.text, Outcome: m.outcome}, nil
}

func (m *mockGenerator) ModelName() string { return "mock-chat" }

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// mockChunkStore keeps chunks per source in memory.
type mockChunkStore struct {
	mu      sync.Mutex
	chunks  map[string][]domain.Chunk
	listErr error
}

func newMockChunkStore() *mockChunkStore {
	return &mockChunkStore{chunks: make(map[string][]domain.Chunk)}
}

func (m *mockChunkStore) Upsert(_ context.Context, sourceID string, chunks []domain.Chunk) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[sourceID] = append([]domain.Chunk(nil), chunks...)
	return len(chunks), nil
}

func (m *mockChunkStore) Count(_ context.Context, sourceID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks[sourceID]), nil
}

func (m *mockChunkStore) List(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Chunk(nil), m.chunks[sourceID]...), nil
}

func (m *mockChunkStore) Sources(_ context.Context) ([]domain.SourceStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SourceStats
	for id, cs := range m.chunks {
		st := domain.SourceStats{SourceID: id, Chunks: len(cs)}
		for _, c := range cs {
			if c.Degraded {
				st.Degraded++
			}
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	return out, nil
}

func (m *mockChunkStore) Delete(_ context.Context, sourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chunks, sourceID)
	return nil
}

// seed stores embedded chunks for texts.
func (m *mockChunkStore) seed(sourceID string, texts ...string) {
	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{
			SourceID:    sourceID,
			Index:       i + 1,
			Text:        t,
			Embedding:   keywordVector(t),
			ContentHash: domain.ContentHash(sourceID, i+1, t),
		}
	}
	_, _ = m.Upsert(context.Background(), sourceID, chunks)
}

// mockFetcher serves source texts by id.
type mockFetcher struct {
	texts map[string]string
	calls int
}

func (m *mockFetcher) FetchText(_ context.Context, sourceID string) (string, error) {
	m.calls++
	text, ok := m.texts[sourceID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

// mockSearch returns canned hits per query.
type mockSearch struct {
	hits map[string][]domain.Hit
	err  error
}

func (m *mockSearch) Search(_ context.Context, _, query string, topK int) ([]domain.Hit, error) {
	if m.err != nil {
		return nil, m.err
	}
	hits := m.hits[query]
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// mockSummaryCache is a map-backed summary cache.
type mockSummaryCache struct {
	mu    sync.Mutex
	items map[string]*domain.Summary
}

func newMockSummaryCache() *mockSummaryCache {
	return &mockSummaryCache{items: make(map[string]*domain.Summary)}
}

func (m *mockSummaryCache) Get(_ context.Context, sourceID string) (*domain.Summary, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[sourceID]
	return s, ok, nil
}

func (m *mockSummaryCache) Set(_ context.Context, sourceID string, s *domain.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[sourceID] = s
	return nil
}

func (m *mockSummaryCache) Delete(_ context.Context, sourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, sourceID)
	return nil
}

// mockSummaries returns a fixed summary.
type mockSummaries struct {
	summary *domain.Summary
	err     error
}

func (m *mockSummaries) EnsureSummary(_ context.Context, _ string) (*domain.Summary, error) {
	return m.summary, m.err
}

func (m *mockSummaries) Invalidate(_ context.Context, _ string) error { return nil }

// mockMetadata serves catalog metadata.
type mockMetadata struct {
	meta map[string]domain.SourceMeta
}

func (m *mockMetadata) Lookup(_ context.Context, sourceID string) (domain.SourceMeta, error) {
	meta, ok := m.meta[sourceID]
	if !ok {
		return domain.SourceMeta{}, domain.ErrNotFound
	}
	return meta, nil
}

// mockRenderer renders "<format> of <source>" or fails for listed formats.
// A non-empty version prefixes the text; degraded formats return a
// placeholder with OutcomeDegraded.
type mockRenderer struct {
	mu       sync.Mutex
	fail     map[string]error
	degraded map[string]bool
	version  string
	calls    []string
}

func (m *mockRenderer) Render(_ context.Context, sourceID, format, channel string) (domain.Rendered, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, sourceID+"/"+format)
	if err := m.fail[format]; err != nil {
		return domain.Rendered{}, err
	}
	if m.degraded[format] {
		return domain.Rendered{Text: "temporarily unavailable", Outcome: domain.OutcomeDegraded}, nil
	}
	text := format + " of " + sourceID + " for " + channel
	if m.version != "" {
		text = m.version + ": " + text
	}
	return domain.Rendered{Text: text, Outcome: domain.OutcomeOK}, nil
}

// mockIngest records EnsureIngested calls.
type mockIngest struct {
	mu      sync.Mutex
	ensured []string
	err     error
}

func (m *mockIngest) Ingest(_ context.Context, _, _ string) (int, error) { return 0, m.err }

func (m *mockIngest) IngestSource(_ context.Context, sourceID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured = append(m.ensured, sourceID)
	return 3, m.err
}

func (m *mockIngest) EnsureIngested(_ context.Context, sourceID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured = append(m.ensured, sourceID)
	return 3, m.err
}

func (m *mockIngest) Sources(_ context.Context) ([]domain.SourceStats, error) { return nil, nil }

// mockChannels serves a fixed channel list.
type mockChannels struct {
	channels []domain.Channel
}

func (m *mockChannels) Channels() []domain.Channel { return m.channels }

func (m *mockChannels) Channel(key string) (domain.Channel, bool) {
	for _, ch := range m.channels {
		if ch.Matches(key) {
			return ch, true
		}
	}
	return domain.Channel{}, false
}

// mockSheet is an in-memory drafts table.
type mockSheet struct {
	mu      sync.Mutex
	pushed  [][]domain.Draft
	rows    []driven.RawRow
	pushErr error
	pullErr error
}

func (m *mockSheet) Push(_ context.Context, drafts []domain.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushed = append(m.pushed, append([]domain.Draft(nil), drafts...))
	return nil
}

func (m *mockSheet) PullAll(_ context.Context) ([]driven.RawRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pullErr != nil {
		return nil, m.pullErr
	}
	return m.rows, nil
}

// mockQueue is an in-memory control table. Only pending rows are pulled.
type mockQueue struct {
	mu        sync.Mutex
	requests  []domain.ControlRequest
	updateErr error
}

func (m *mockQueue) PullRequests(_ context.Context) ([]domain.ControlRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ControlRequest
	for _, r := range m.requests {
		if r.IsPending() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockQueue) UpdateStatus(_ context.Context, row int, status, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.requests {
		if m.requests[i].Row == row {
			m.requests[i].Status = status
			m.requests[i].Note = note
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockQueue) request(row int) domain.ControlRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.Row == row {
			return r
		}
	}
	return domain.ControlRequest{}
}

// mockCatalog is an in-memory source catalog.
type mockCatalog struct {
	mu       sync.Mutex
	entries  []domain.CatalogEntry
	appended []domain.CatalogEntry
}

func (m *mockCatalog) List(_ context.Context) ([]domain.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CatalogEntry(nil), m.entries...), nil
}

func (m *mockCatalog) UpdateStatus(_ context.Context, id string, status domain.CatalogStatus, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].Status = status
			m.entries[i].Note = note
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockCatalog) Append(_ context.Context, entries []domain.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended = append(m.appended, entries...)
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockCatalog) entry(id string) domain.CatalogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e
		}
	}
	return domain.CatalogEntry{}
}

// mockDiscoverer returns fixed catalog entries.
type mockDiscoverer struct {
	entries []domain.CatalogEntry
	err     error
}

func (m *mockDiscoverer) Discover(_ context.Context) ([]domain.CatalogEntry, error) {
	return m.entries, m.err
}

// mockSender records sends.
type mockSender struct {
	mu     sync.Mutex
	result driven.SendResult
	err    error
	sent   []string
}

func (m *mockSender) Send(_ context.Context, alias, _, text string) (driven.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return driven.SendResult{}, m.err
	}
	m.sent = append(m.sent, alias+": "+text)
	return m.result, nil
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// mockPlanner records GenerateDay calls.
type mockPlanner struct {
	mu    sync.Mutex
	n     int
	err   error
	calls []string
}

func (m *mockPlanner) GenerateDay(_ context.Context, channel, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, channel+"@"+date)
	return m.n, m.err
}

// mockJobStore keeps runs in memory.
type mockJobStore struct {
	mu   sync.Mutex
	runs []domain.JobRun
}

func (m *mockJobStore) RecordRun(_ context.Context, run *domain.JobRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockJobStore) History(_ context.Context, kind string, limit int) ([]domain.JobRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.JobRun
	for _, r := range m.runs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockJobStore) HasRun(_ context.Context, kind, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.Kind == kind && r.Key == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockJobStore) PruneHistory(_ context.Context, _ int) error { return nil }

// mockConfigStore is a map-backed config store.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.values[key].(bool)
	return b
}

func (m *mockConfigStore) GetStringSlice(_ string) []string { return nil }

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error  { return nil }
func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "mock" }

var errBoom = errors.New("boom")

// newDraftStore creates a SQLite draft store in a temp directory.
func newDraftStore(t *testing.T) driven.DraftStore {
	t.Helper()

	dir, err := os.MkdirTemp("", "autopost-services-*")
	require.NoError(t, err)

	store, err := sqlite.NewStore(dir)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(dir))
	})
	return store.DraftStore()
}

// booksChannel has three slots and is bound to a source when sourceID is set.
func booksChannel(sourceID string) domain.Channel {
	return domain.Channel{
		Alias:    "C1",
		Name:     "books",
		TokenEnv: "C1_TOKEN",
		Timezone: "Europe/Moscow",
		Enabled:  true,
		SourceID: sourceID,
		Slots: []domain.Slot{
			{Time: "09:00", Format: domain.FormatAnnounce},
			{Time: "13:00", Format: domain.FormatInsight},
			{Time: "19:00", Format: domain.FormatQuote},
		},
	}
}
