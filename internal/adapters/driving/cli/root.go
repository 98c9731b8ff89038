// Package cli implements the autopost command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// version is set at build time.
var version = "dev"

var verbose bool

// Services wired by main. Nil fields leave their commands unconfigured.
type Services struct {
	Ingest    driving.IngestService
	Search    driving.SearchService
	Summary   driving.SummaryService
	Render    driving.RenderService
	Planner   driving.PlannerService
	Drafts    driving.DraftService
	Sync      driving.SyncService
	Control   driving.ControlService
	Settings  driving.SettingsService
	Scheduler driving.Scheduler

	Channels   driven.ChannelProvider
	Catalog    driven.SourceCatalog
	Discoverer driven.SourceDiscoverer

	// ReadFile loads a local file as plain text for ingestion.
	ReadFile func(path string) (string, error)

	// ValidateOpenAI checks credentials before the wizard saves them.
	ValidateOpenAI func(ctx context.Context, settings domain.OpenAISettings) error

	// Watch runs until ctx ends and calls onChange when channel config changes.
	Watch func(ctx context.Context, onChange func()) error
}

var (
	ingestService   driving.IngestService
	searchService   driving.SearchService
	summaryService  driving.SummaryService
	renderService   driving.RenderService
	plannerService  driving.PlannerService
	draftService    driving.DraftService
	syncService     driving.SyncService
	controlService  driving.ControlService
	settingsService driving.SettingsService
	scheduler       driving.Scheduler

	channelProvider  driven.ChannelProvider
	sourceCatalog    driven.SourceCatalog
	sourceDiscoverer driven.SourceDiscoverer

	readFile       func(path string) (string, error)
	validateOpenAI func(ctx context.Context, settings domain.OpenAISettings) error
	watchChannels  func(ctx context.Context, onChange func()) error
)

var rootCmd = &cobra.Command{
	Use:   "autopost",
	Short: "Draft, review and publish book posts to bot channels",
	Long: `autopost turns books into scheduled channel posts.

Sources are chunked and embedded, summarised once, and rendered into one
draft per schedule slot. Reviewers approve drafts in the review sheet,
the terminal UI or this CLI; the worker publishes approved drafts at
their local slot time.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices installs the services used by commands.
func SetServices(s *Services) {
	ingestService = s.Ingest
	searchService = s.Search
	summaryService = s.Summary
	renderService = s.Render
	plannerService = s.Planner
	draftService = s.Drafts
	syncService = s.Sync
	controlService = s.Control
	settingsService = s.Settings
	scheduler = s.Scheduler
	channelProvider = s.Channels
	sourceCatalog = s.Catalog
	sourceDiscoverer = s.Discoverer
	readFile = s.ReadFile
	validateOpenAI = s.ValidateOpenAI
	watchChannels = s.Watch
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// errNotConfigured reports a missing service.
func errNotConfigured(what string) error {
	return errors.New(what + " not configured")
}

// commandContext returns the command's context or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
