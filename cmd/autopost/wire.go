package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"google.golang.org/api/option"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/ai"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/cache/redis"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/config/file"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/review"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/review/xlsx"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/sender/telegram"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/storage/memory"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/storage/sqlite"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/cli"
	"github.com/MaxSetka1/max-autopost-bot/internal/connectors/filesystem"
	"github.com/MaxSetka1/max-autopost-bot/internal/connectors/google"
	"github.com/MaxSetka1/max-autopost-bot/internal/connectors/google/drive"
	"github.com/MaxSetka1/max-autopost-bot/internal/connectors/google/sheets"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/services"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
	"github.com/MaxSetka1/max-autopost-bot/internal/normalisers"
	"github.com/MaxSetka1/max-autopost-bot/internal/postprocessors"
	"github.com/MaxSetka1/max-autopost-bot/internal/postprocessors/chunker"
)

// envConfigDir overrides the config directory (default ~/.autopost).
const envConfigDir = "AUTOPOST_CONFIG_DIR"

// application holds the wired services and the resources to release.
type application struct {
	services *cli.Services
	closers  []func() error
}

// Close releases resources in reverse order. Safe to call twice.
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close: %v", err)
		}
	}
	a.closers = nil
}

func configDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(envConfigDir)); dir != "" {
		return dir, nil
	}
	return file.DefaultConfigDir()
}

// wire builds every adapter and service from settings. Missing optional
// backends (OpenAI, review sheet, Drive, redis) leave their features
// degraded or unconfigured instead of failing startup.
//
//nolint:funlen // composition root
func wire(ctx context.Context) (*application, error) {
	app := &application{}

	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	app.closers = append(app.closers, store.Close)

	aiServices, err := ai.Create(settings)
	if err != nil {
		logger.Debug("openai unavailable: %v", err)
	}

	channels, err := file.NewChannelStore(dir)
	if err != nil {
		return nil, fmt.Errorf("loading channels: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	normaliserRegistry := normalisers.Defaults()

	surface := reviewSurface(ctx, settings)
	var driveConnector *drive.Connector
	if settings.Review.CredentialsJSON != "" {
		driveConnector, err = newDriveConnector(ctx, settings, normaliserRegistry)
		if err != nil {
			logger.Warn("drive disabled: %v", err)
		}
	}
	var books *filesystem.Connector
	if driveConnector == nil && settings.Review.BooksDir != "" {
		books = filesystem.New(settings.Review.BooksDir, normaliserRegistry)
		if err := books.Validate(ctx); err != nil {
			logger.Warn("books folder disabled: %v", err)
			books = nil
		}
	}

	chunks := chunker.New(
		chunker.WithTargetSize(settings.Pipeline.ChunkTarget),
		chunker.WithOverlap(settings.Pipeline.ChunkOverlap),
		chunker.WithMaxChunks(settings.Pipeline.MaxChunks),
	)

	var fetcher driven.SourceFetcher
	switch {
	case driveConnector != nil:
		fetcher = driveConnector
	case books != nil:
		fetcher = books
	}
	ingestService := services.NewIngestService(chunks, aiServices.EmbedderPort(), store.ChunkStore(), fetcher)
	searchService := services.NewSearchService(aiServices.EmbedderPort(), store.ChunkStore())

	summaryService := services.NewSummaryService(
		searchService, aiServices.GeneratorPort(), summaryCache(ctx, app, settings), settings.Pipeline.ProbeTopK)
	summaryService.SetPromptStore(prompts)

	var metadata driven.SourceMetadata
	switch {
	case surface != nil:
		metadata = surface
	case driveConnector != nil:
		metadata = driveConnector
	case books != nil:
		metadata = books
	}
	renderService := services.NewRenderService(
		summaryService, aiServices.GeneratorPort(), postprocessors.DefaultPipeline(), metadata)
	renderService.SetPromptStore(prompts)

	planner := services.NewPlannerService(channels, renderService, store.DraftStore())
	planner.SetIngestService(ingestService)

	sender := telegram.New(telegram.Config{FallbackURL: settings.Sender.APIBase})
	scheduler := services.NewScheduler(settings.Scheduler, store.DraftStore(), sender)
	scheduler.SetJobStore(store.JobStore())

	svc := &cli.Services{
		Ingest:         ingestService,
		Search:         searchService,
		Summary:        summaryService,
		Render:         renderService,
		Planner:        planner,
		Drafts:         services.NewDraftService(store.DraftStore()),
		Settings:       settingsService,
		Scheduler:      scheduler,
		Channels:       channels,
		ReadFile:       localFileReader(normaliserRegistry),
		ValidateOpenAI: ai.Validate,
		Watch: func(ctx context.Context, onChange func()) error {
			return file.NewWatcher(channels.Dir(), channels.Files(), func() {
				if err := channels.Reload(); err != nil {
					logger.Warn("reloading channels: %v", err)
					return
				}
				onChange()
			}).Run(ctx)
		},
	}

	var discoverer driven.SourceDiscoverer
	switch {
	case driveConnector != nil && settings.Review.DriveFolderID != "":
		discoverer = driveConnector
	case books != nil:
		discoverer = books
	}
	svc.Discoverer = discoverer

	if surface != nil {
		bridge := services.NewSyncBridge(surface, store.DraftStore())
		control := services.NewControlProcessor(surface, planner, channels)
		control.SetIngestService(ingestService)
		control.SetJobStore(store.JobStore())
		if discoverer != nil {
			control.SetDiscovery(discoverer, surface.Catalog())
		}

		planner.SetDraftSheet(surface)
		planner.SetCatalog(surface.Catalog())
		scheduler.SetSyncer(bridge)
		scheduler.SetControl(control)

		svc.Sync = bridge
		svc.Control = control
		svc.Catalog = surface.Catalog()
	}

	app.services = svc
	return app, nil
}

// reviewSurface opens the configured review backend, or returns nil.
func reviewSurface(ctx context.Context, settings *domain.AppSettings) *review.Surface {
	switch settings.Review.Backend {
	case domain.ReviewBackendXLSX:
		if settings.Review.WorkbookPath == "" {
			logger.Warn("review: xlsx backend without workbook_path")
			return nil
		}
		return review.NewSurface(xlsx.NewTable(settings.Review.WorkbookPath))

	case domain.ReviewBackendSheets:
		opts, err := googleOptions(ctx, settings, google.ScopeSheets)
		if err != nil {
			logger.Warn("review: %v", err)
			return nil
		}
		svc, err := google.NewSheetsService(ctx, opts...)
		if err != nil {
			logger.Warn("review: %v", err)
			return nil
		}
		return review.NewSurface(sheets.NewTable(svc, settings.Review.SheetKey))

	default:
		return nil
	}
}

func newDriveConnector(
	ctx context.Context, settings *domain.AppSettings, registry driven.NormaliserRegistry,
) (*drive.Connector, error) {
	opts, err := googleOptions(ctx, settings, google.ScopeDriveReadonly)
	if err != nil {
		return nil, err
	}
	svc, err := google.NewDriveService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return drive.New(svc, drive.DefaultConfig(settings.Review.DriveFolderID), registry), nil
}

func googleOptions(ctx context.Context, settings *domain.AppSettings, scopes ...string) ([]option.ClientOption, error) {
	ts, err := google.NewServiceAccountTokenSource(ctx, settings.Review.CredentialsJSON, scopes...)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithTokenSource(ts)}, nil
}

// summaryCache uses redis when configured and reachable, memory otherwise.
func summaryCache(ctx context.Context, app *application, settings *domain.AppSettings) driven.SummaryCache {
	if url := settings.Cache.RedisURL; url != "" {
		client, err := redis.Connect(ctx, url)
		if err == nil {
			app.closers = append(app.closers, client.Close)
			return redis.New(client, settings.Pipeline.SummaryTTL)
		}
		logger.Warn("redis unavailable, using memory cache: %v", err)
	}
	return memory.NewSummaryCache(memory.WithTTL(settings.Pipeline.SummaryTTL))
}

// localFileReader normalises a local file to plain text.
func localFileReader(registry driven.NormaliserRegistry) func(path string) (string, error) {
	return func(path string) (string, error) {
		mimeType := filesystem.DetectMIMEType(path)
		if !slices.Contains(registry.SupportedMIMETypes(), mimeType) {
			return "", fmt.Errorf("%s (%s): %w", filepath.Ext(path), mimeType, domain.ErrUnsupportedType)
		}
		return filesystem.New(filepath.Dir(path), registry).FetchText(context.Background(), filepath.Base(path))
	}
}
