package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

func envOf(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore()).WithEnv(envOf(nil))

	got, err := svc.Get()
	require.NoError(t, err)

	defaults := svc.GetDefaults()
	assert.Equal(t, defaults.OpenAI, got.OpenAI)
	assert.Equal(t, defaults.Pipeline, got.Pipeline)
	assert.Equal(t, domain.ReviewBackendNone, got.Review.Backend)
	assert.Equal(t, 30*time.Second, got.Scheduler.ControlPollInterval)
	assert.False(t, got.OpenAI.IsConfigured())
}

func TestSettingsService_Get_StoredValues(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store).WithEnv(envOf(nil))
	require.NoError(t, svc.Set("openai.chat_model", "gpt-4o"))
	require.NoError(t, svc.Set("pipeline.chunk_target", "900"))
	require.NoError(t, svc.Set("pipeline.summary_ttl", "24h"))
	require.NoError(t, svc.Set("review.backend", "XLSX"))
	require.NoError(t, svc.Set("review.workbook_path", "/tmp/review.xlsx"))
	require.NoError(t, svc.Set("scheduler.control_poll_sec", "45"))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got.OpenAI.ChatModel)
	assert.Equal(t, 900, got.Pipeline.ChunkTarget)
	assert.Equal(t, 24*time.Hour, got.Pipeline.SummaryTTL)
	assert.Equal(t, domain.ReviewBackendXLSX, got.Review.Backend)
	assert.Equal(t, "/tmp/review.xlsx", got.Review.WorkbookPath)
	assert.Equal(t, 45*time.Second, got.Scheduler.ControlPollInterval)
	assert.Equal(t, 900, store.values["pipeline.chunk_target"])
}

func TestSettingsService_Get_EnvironmentWins(t *testing.T) {
	store := newMockConfigStore()
	store.values["openai.chat_model"] = "stored-model"
	store.values["scheduler.control_poll_sec"] = 45
	svc := NewSettingsService(store).WithEnv(envOf(map[string]string{
		EnvOpenAIAPIKey:   "sk-test",
		EnvChatModel:      "env-model",
		EnvOpenAIRetry:    "7",
		EnvSheetKey:       "sheet-123",
		EnvServiceAccount: `{"type":"service_account"}`,
		EnvControlPollSec: "5",
		EnvBotAPIBase:     "https://bots.example.com",
		EnvRedisURL:       "redis://localhost:6379/0",
		EnvDriveFolder:    "folder-1",
		EnvBooksDir:       "/srv/books",
		EnvDataDir:        "/var/lib/autopost",
	}))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.True(t, got.OpenAI.IsConfigured())
	assert.Equal(t, "env-model", got.OpenAI.ChatModel)
	assert.Equal(t, 7, got.OpenAI.MaxRetries)
	assert.Equal(t, "sheet-123", got.Review.SheetKey)
	assert.Equal(t, domain.ReviewBackendSheets, got.Review.Backend, "a sheet key selects sheets")
	assert.Equal(t, "folder-1", got.Review.DriveFolderID)
	assert.Equal(t, "/srv/books", got.Review.BooksDir)
	assert.Equal(t, "/var/lib/autopost", got.DataDir)
	assert.Equal(t, 5*time.Second, got.Scheduler.ControlPollInterval)
	assert.Equal(t, "https://bots.example.com", got.Sender.APIBase)
	assert.Equal(t, "redis://localhost:6379/0", got.Cache.RedisURL)
}

func TestSettingsService_Get_InvalidStoredBackend(t *testing.T) {
	store := newMockConfigStore()
	store.values["review.backend"] = "carrier-pigeon"

	_, err := NewSettingsService(store).WithEnv(envOf(nil)).Get()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Set_Validates(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore()).WithEnv(envOf(nil))

	assert.ErrorIs(t, svc.Set("nope", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set("pipeline.max_chunks", "many"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set("pipeline.max_chunks", "-1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set("scheduler.tick_interval", "soon"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set("review.backend", "dropbox"), domain.ErrInvalidInput)
}

func TestSettingsService_Set_StoreError(t *testing.T) {
	store := newMockConfigStore()
	store.setErr = errBoom

	err := NewSettingsService(store).Set("openai.base_url", "http://localhost:8080/v1")
	assert.ErrorIs(t, err, errBoom)
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(newMockConfigStore()).Keys()

	assert.Contains(t, keys, "openai.api_key")
	assert.Contains(t, keys, "review.backend")
	assert.IsIncreasing(t, keys)
}
