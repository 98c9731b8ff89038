package domain

import "time"

// ReviewBackend selects the collaborative review surface.
type ReviewBackend string

// Available review backends.
const (
	// ReviewBackendSheets uses a Google Sheets spreadsheet.
	ReviewBackendSheets ReviewBackend = "sheets"

	// ReviewBackendXLSX uses a local .xlsx workbook.
	ReviewBackendXLSX ReviewBackend = "xlsx"

	// ReviewBackendNone disables the review surface.
	ReviewBackendNone ReviewBackend = "none"
)

// IsValid returns true if the backend is recognised.
func (b ReviewBackend) IsValid() bool {
	switch b {
	case ReviewBackendSheets, ReviewBackendXLSX, ReviewBackendNone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b ReviewBackend) String() string {
	return string(b)
}

// OpenAISettings configures the embedding and generation API.
type OpenAISettings struct {
	// APIKey is the API key.
	APIKey string

	// BaseURL overrides the API endpoint (proxies, compatible servers).
	BaseURL string

	// EmbedModel is the embedding model name.
	EmbedModel string

	// ChatModel is the generation model name.
	ChatModel string

	// MaxRetries bounds retries on rate limiting and transient server errors.
	MaxRetries int
}

// IsConfigured returns true if an API key is present.
func (o OpenAISettings) IsConfigured() bool {
	return o.APIKey != ""
}

// PipelineSettings tunes ingestion and retrieval.
type PipelineSettings struct {
	// ChunkTarget is the target chunk size in characters.
	ChunkTarget int

	// ChunkOverlap is the number of trailing characters carried into the next chunk.
	ChunkOverlap int

	// MaxChunks caps the chunks kept per source; 0 keeps all.
	MaxChunks int

	// EmbedBatchSize bounds texts per embedding call.
	EmbedBatchSize int

	// ProbeTopK is the per-probe retrieval depth used by the summarizer.
	ProbeTopK int

	// SummaryTTL is how long a built summary stays cached; 0 never expires.
	SummaryTTL time.Duration
}

// ReviewSettings configures the review surface.
type ReviewSettings struct {
	// Backend selects sheets, xlsx or none.
	Backend ReviewBackend

	// SheetKey is the Google spreadsheet id.
	SheetKey string

	// CredentialsJSON is the Google service account JSON.
	CredentialsJSON string

	// WorkbookPath is the .xlsx path for the xlsx backend.
	WorkbookPath string

	// DriveFolderID is the Drive folder scanned by the sync action.
	DriveFolderID string

	// BooksDir is a local folder of sources, used when Drive is not configured.
	BooksDir string
}

// SenderSettings configures post delivery.
type SenderSettings struct {
	// APIBase is the fallback Bot API base URL.
	APIBase string
}

// CacheSettings configures the summary cache backend.
type CacheSettings struct {
	// RedisURL enables the redis summary cache when set.
	RedisURL string
}

// AppSettings holds all application settings.
type AppSettings struct {
	OpenAI    OpenAISettings
	Pipeline  PipelineSettings
	Review    ReviewSettings
	Sender    SenderSettings
	Cache     CacheSettings
	Scheduler SchedulerConfig

	// DataDir holds the SQLite database.
	DataDir string
}

// DefaultAppSettings returns settings with sensible defaults.
// The API key and review surface are left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		OpenAI: OpenAISettings{
			EmbedModel: "text-embedding-3-small",
			ChatModel:  "gpt-4o-mini",
			MaxRetries: 4,
		},
		Pipeline: PipelineSettings{
			ChunkTarget:    1200,
			ChunkOverlap:   200,
			EmbedBatchSize: 64,
			ProbeTopK:      8,
		},
		Review: ReviewSettings{
			Backend: ReviewBackendNone,
		},
		Scheduler: DefaultSchedulerConfig(),
	}
}
