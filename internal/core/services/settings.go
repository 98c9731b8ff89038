package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyOpenAIAPIKey      = "openai.api_key"
	keyOpenAIBaseURL     = "openai.base_url"
	keyOpenAIEmbedModel  = "openai.embed_model"
	keyOpenAIChatModel   = "openai.chat_model"
	keyOpenAIMaxRetries  = "openai.max_retries"
	keyChunkTarget       = "pipeline.chunk_target"
	keyChunkOverlap      = "pipeline.chunk_overlap"
	keyMaxChunks         = "pipeline.max_chunks"
	keyEmbedBatchSize    = "pipeline.embed_batch_size"
	keyProbeTopK         = "pipeline.probe_top_k"
	keySummaryTTL        = "pipeline.summary_ttl"
	keyReviewBackend     = "review.backend"
	keySheetKey          = "review.sheet_key"
	keyCredentialsJSON   = "review.credentials_json"
	keyWorkbookPath      = "review.workbook_path"
	keyDriveFolderID     = "review.drive_folder_id"
	keyBooksDir          = "review.books_dir"
	keySenderAPIBase     = "sender.api_base"
	keyRedisURL          = "cache.redis_url"
	keyTickInterval      = "scheduler.tick_interval"
	keyControlPollSec    = "scheduler.control_poll_sec"
	keySchedHistoryLimit = "scheduler.history_limit"
	keyDataDir           = "data_dir"
)

// Environment variables that override stored settings.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvOpenAIBaseURL  = "OPENAI_BASE_URL"
	EnvEmbedModel     = "OPENAI_EMBED_MODEL"
	EnvChatModel      = "OPENAI_CHAT_MODEL"
	EnvOpenAIRetry    = "OPENAI_RETRY"
	EnvSheetKey       = "GSHEET_KEY"
	EnvServiceAccount = "GOOGLE_SERVICE_ACCOUNT_JSON"
	EnvDriveFolder    = "DRIVE_FOLDER_ID"
	EnvBooksDir       = "BOOKS_DIR"
	EnvDataDir        = "AUTOPOST_DATA_DIR"
	EnvBotAPIBase     = "BOT_API_BASE"
	EnvControlPollSec = "CONTROL_POLL_SEC"
	EnvRedisURL       = "REDIS_URL"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindDuration
	kindBackend
)

var settingKeys = map[string]keyKind{
	keyOpenAIAPIKey:      kindString,
	keyOpenAIBaseURL:     kindString,
	keyOpenAIEmbedModel:  kindString,
	keyOpenAIChatModel:   kindString,
	keyOpenAIMaxRetries:  kindInt,
	keyChunkTarget:       kindInt,
	keyChunkOverlap:      kindInt,
	keyMaxChunks:         kindInt,
	keyEmbedBatchSize:    kindInt,
	keyProbeTopK:         kindInt,
	keySummaryTTL:        kindDuration,
	keyReviewBackend:     kindBackend,
	keySheetKey:          kindString,
	keyCredentialsJSON:   kindString,
	keyWorkbookPath:      kindString,
	keyDriveFolderID:     kindString,
	keyBooksDir:          kindString,
	keySenderAPIBase:     kindString,
	keyRedisURL:          kindString,
	keyTickInterval:      kindDuration,
	keyControlPollSec:    kindInt,
	keySchedHistoryLimit: kindInt,
	keyDataDir:           kindString,
}

// SettingsService reads settings from the config store with environment
// overrides on top.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore, getenv: os.Getenv}
}

// WithEnv sets the environment lookup. Used by tests.
func (s *SettingsService) WithEnv(getenv func(string) string) *SettingsService {
	s.getenv = getenv
	return s
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		OpenAI: domain.OpenAISettings{
			APIKey:     s.str(EnvOpenAIAPIKey, keyOpenAIAPIKey, ""),
			BaseURL:    s.str(EnvOpenAIBaseURL, keyOpenAIBaseURL, d.OpenAI.BaseURL),
			EmbedModel: s.str(EnvEmbedModel, keyOpenAIEmbedModel, d.OpenAI.EmbedModel),
			ChatModel:  s.str(EnvChatModel, keyOpenAIChatModel, d.OpenAI.ChatModel),
			MaxRetries: s.int(EnvOpenAIRetry, keyOpenAIMaxRetries, d.OpenAI.MaxRetries),
		},
		Pipeline: domain.PipelineSettings{
			ChunkTarget:    s.int("", keyChunkTarget, d.Pipeline.ChunkTarget),
			ChunkOverlap:   s.int("", keyChunkOverlap, d.Pipeline.ChunkOverlap),
			MaxChunks:      s.int("", keyMaxChunks, d.Pipeline.MaxChunks),
			EmbedBatchSize: s.int("", keyEmbedBatchSize, d.Pipeline.EmbedBatchSize),
			ProbeTopK:      s.int("", keyProbeTopK, d.Pipeline.ProbeTopK),
			SummaryTTL:     s.duration(keySummaryTTL, d.Pipeline.SummaryTTL),
		},
		Review: domain.ReviewSettings{
			SheetKey:        s.str(EnvSheetKey, keySheetKey, ""),
			CredentialsJSON: s.str(EnvServiceAccount, keyCredentialsJSON, ""),
			WorkbookPath:    s.str("", keyWorkbookPath, ""),
			DriveFolderID:   s.str(EnvDriveFolder, keyDriveFolderID, ""),
			BooksDir:        s.str(EnvBooksDir, keyBooksDir, ""),
		},
		Sender: domain.SenderSettings{
			APIBase: s.str(EnvBotAPIBase, keySenderAPIBase, ""),
		},
		Cache: domain.CacheSettings{
			RedisURL: s.str(EnvRedisURL, keyRedisURL, ""),
		},
		Scheduler: domain.SchedulerConfig{
			TickInterval:        s.duration(keyTickInterval, d.Scheduler.TickInterval),
			ControlPollInterval: d.Scheduler.ControlPollInterval,
			HistoryLimit:        s.int("", keySchedHistoryLimit, d.Scheduler.HistoryLimit),
		},
		DataDir: s.str(EnvDataDir, keyDataDir, ""),
	}

	if sec := s.int(EnvControlPollSec, keyControlPollSec, 0); sec > 0 {
		settings.Scheduler.ControlPollInterval = time.Duration(sec) * time.Second
	}

	backend := domain.ReviewBackend(strings.ToLower(s.configStore.GetString(keyReviewBackend)))
	switch {
	case backend.IsValid():
		settings.Review.Backend = backend
	case backend != "":
		return nil, fmt.Errorf("review backend %q: %w", backend, domain.ErrInvalidInput)
	case settings.Review.SheetKey != "":
		settings.Review.Backend = domain.ReviewBackendSheets
	default:
		settings.Review.Backend = d.Review.Backend
	}

	return settings, nil
}

// Set stores one setting, checking the value against the key's type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	value = strings.TrimSpace(value)

	var stored any = value
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
		}
		stored = n
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a duration like 30s or 1h: %w", key, domain.ErrInvalidInput)
		}
	case kindBackend:
		value = strings.ToLower(value)
		if !domain.ReviewBackend(value).IsValid() {
			return fmt.Errorf("%s must be sheets, xlsx or none: %w", key, domain.ErrInvalidInput)
		}
		stored = value
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the settable keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) str(env, key, def string) string {
	if env != "" {
		if v := strings.TrimSpace(s.getenv(env)); v != "" {
			return v
		}
	}
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) int(env, key string, def int) int {
	if env != "" {
		if v := strings.TrimSpace(s.getenv(env)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return def
}

func (s *SettingsService) duration(key string, def time.Duration) time.Duration {
	if v := s.configStore.GetString(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
