package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

type mockIngestService struct {
	chunks     int
	stats      []domain.SourceStats
	err        error
	lastSource string
	lastText   string
}

func (m *mockIngestService) Ingest(_ context.Context, sourceID, text string) (int, error) {
	m.lastSource = sourceID
	m.lastText = text
	return m.chunks, m.err
}

func (m *mockIngestService) IngestSource(_ context.Context, sourceID string) (int, error) {
	m.lastSource = sourceID
	return m.chunks, m.err
}

func (m *mockIngestService) EnsureIngested(_ context.Context, sourceID string) (int, error) {
	m.lastSource = sourceID
	return m.chunks, m.err
}

func (m *mockIngestService) Sources(_ context.Context) ([]domain.SourceStats, error) {
	return m.stats, m.err
}

type mockSearchService struct {
	hits       []domain.Hit
	err        error
	lastSource string
	lastQuery  string
	lastTopK   int
}

func (m *mockSearchService) Search(_ context.Context, sourceID, query string, topK int) ([]domain.Hit, error) {
	m.lastSource = sourceID
	m.lastQuery = query
	m.lastTopK = topK
	return m.hits, m.err
}

type mockSummaryService struct {
	summary     *domain.Summary
	err         error
	invalidated bool
}

func (m *mockSummaryService) EnsureSummary(_ context.Context, _ string) (*domain.Summary, error) {
	if m.summary == nil {
		return &domain.Summary{}, m.err
	}
	return m.summary, m.err
}

func (m *mockSummaryService) Invalidate(_ context.Context, _ string) error {
	m.invalidated = true
	return nil
}

type mockRenderService struct {
	out         domain.Rendered
	err         error
	lastFormat  string
	lastChannel string
}

func (m *mockRenderService) Render(_ context.Context, _, format, channel string) (domain.Rendered, error) {
	m.lastFormat = format
	m.lastChannel = channel
	return m.out, m.err
}

type mockPlannerService struct {
	created     int
	err         error
	lastChannel string
	lastDate    string
}

func (m *mockPlannerService) GenerateDay(_ context.Context, channel, date string) (int, error) {
	m.lastChannel = channel
	m.lastDate = date
	return m.created, m.err
}

type mockDraftService struct {
	drafts     []domain.Draft
	err        error
	lastFilter domain.DraftFilter
	approvedBy string
	rejected   int64
	editedID   int64
	editedText string
}

func (m *mockDraftService) List(_ context.Context, filter domain.DraftFilter) ([]domain.Draft, error) {
	m.lastFilter = filter
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

func (m *mockDraftService) Approve(_ context.Context, _ int64, reviewer string) error {
	m.approvedBy = reviewer
	return m.err
}

func (m *mockDraftService) Reject(_ context.Context, id int64) error {
	m.rejected = id
	return m.err
}

func (m *mockDraftService) Edit(_ context.Context, id int64, text string) error {
	m.editedID = id
	m.editedText = text
	return m.err
}

type mockSyncService struct {
	applied int
	err     error
}

func (m *mockSyncService) SyncAll(_ context.Context) (int, error) {
	return m.applied, m.err
}

type mockControlService struct {
	processed int
	err       error
}

func (m *mockControlService) Poll(_ context.Context) (int, error) {
	return m.processed, m.err
}

type mockSettingsService struct {
	settings domain.AppSettings
	sets     map[string]string
	err      error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), sets: make(map[string]string)}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"openai.api_key", "review.backend"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

type mockScheduler struct {
	entries  []domain.ScheduleEntry
	startErr error
	reloads  int
	started  bool
	stopped  bool
}

func (m *mockScheduler) Start(_ context.Context) error {
	m.started = true
	return m.startErr
}

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

func (m *mockScheduler) Reload(_ []domain.Channel) {
	m.reloads++
}

func (m *mockScheduler) Entries() []domain.ScheduleEntry {
	return m.entries
}

type mockChannelProvider struct {
	channels []domain.Channel
}

func (m *mockChannelProvider) Channels() []domain.Channel {
	return m.channels
}

func (m *mockChannelProvider) Channel(key string) (domain.Channel, bool) {
	for _, c := range m.channels {
		if c.Name == key || c.Alias == key {
			return c, true
		}
	}
	return domain.Channel{}, false
}

type mockCatalog struct {
	entries  []domain.CatalogEntry
	appended []domain.CatalogEntry
	err      error
}

func (m *mockCatalog) List(_ context.Context) ([]domain.CatalogEntry, error) {
	return m.entries, m.err
}

func (m *mockCatalog) UpdateStatus(_ context.Context, _ string, _ domain.CatalogStatus, _ string) error {
	return m.err
}

func (m *mockCatalog) Append(_ context.Context, entries []domain.CatalogEntry) error {
	m.appended = append(m.appended, entries...)
	return m.err
}

type mockDiscoverer struct {
	found []domain.CatalogEntry
	err   error
}

func (m *mockDiscoverer) Discover(_ context.Context) ([]domain.CatalogEntry, error) {
	return m.found, m.err
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	ingest    *mockIngestService
	search    *mockSearchService
	summary   *mockSummaryService
	render    *mockRenderService
	planner   *mockPlannerService
	drafts    *mockDraftService
	sync      *mockSyncService
	control   *mockControlService
	settings  *mockSettingsService
	scheduler *mockScheduler
	channels  *mockChannelProvider
	catalog   *mockCatalog
	discover  *mockDiscoverer
}

// setupTestServices installs fresh mocks and resets command flags.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		ingest:    &mockIngestService{},
		search:    &mockSearchService{},
		summary:   &mockSummaryService{},
		render:    &mockRenderService{},
		planner:   &mockPlannerService{},
		drafts:    &mockDraftService{},
		sync:      &mockSyncService{},
		control:   &mockControlService{},
		settings:  newMockSettingsService(),
		scheduler: &mockScheduler{},
		channels:  &mockChannelProvider{},
		catalog:   &mockCatalog{},
		discover:  &mockDiscoverer{},
	}
	SetServices(&Services{
		Ingest:     ts.ingest,
		Search:     ts.search,
		Summary:    ts.summary,
		Render:     ts.render,
		Planner:    ts.planner,
		Drafts:     ts.drafts,
		Sync:       ts.sync,
		Control:    ts.control,
		Settings:   ts.settings,
		Scheduler:  ts.scheduler,
		Channels:   ts.channels,
		Catalog:    ts.catalog,
		Discoverer: ts.discover,
		ReadFile: func(path string) (string, error) {
			return "text of " + path, nil
		},
	})
	resetFlags()
	return ts, func() {
		SetServices(&Services{})
		resetFlags()
	}
}

func resetFlags() {
	searchLimit, searchJSON = 5, false
	ingestFile = ""
	summaryRefresh, summaryJSON, renderChannel = false, false, ""
	draftsChannel, draftsDate, draftsStatus, draftsLimit, draftsJSON, approveBy = "", "", "", 50, false, ""
	catalogJSON = false
	reviewDate, reviewBy, reviewWorker = "", "", false
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "autopost", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasCommands(t *testing.T) {
	want := []string{
		"ingest", "sources", "search", "summary", "render", "generate", "drafts",
		"sync", "control", "schedule", "run", "catalog", "settings", "review", "mcp", "version",
	}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "missing command %s", name)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	if assert.NotNil(t, flag) {
		assert.Equal(t, "v", flag.Shorthand)
	}
}

func TestCommands_NotConfigured(t *testing.T) {
	SetServices(&Services{})
	resetFlags()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"ingest", "doc-1"}, "ingest service not configured"},
		{[]string{"sources"}, "ingest service not configured"},
		{[]string{"search", "doc-1", "q"}, "search service not configured"},
		{[]string{"summary", "doc-1"}, "summary service not configured"},
		{[]string{"render", "doc-1", "quote"}, "render service not configured"},
		{[]string{"generate", "books"}, "planner not configured"},
		{[]string{"drafts"}, "draft service not configured"},
		{[]string{"sync"}, "review sync not configured"},
		{[]string{"control"}, "control queue not configured"},
		{[]string{"schedule"}, "scheduler not configured"},
		{[]string{"run"}, "scheduler not configured"},
		{[]string{"catalog"}, "source catalog not configured"},
		{[]string{"catalog", "discover"}, "source discovery not configured"},
		{[]string{"settings"}, "settings service not configured"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}
