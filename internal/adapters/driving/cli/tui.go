package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

var (
	reviewDate   string
	reviewBy     string
	reviewWorker bool
)

// reviewCmd launches the interactive review UI.
var reviewCmd = &cobra.Command{
	Use:     "review",
	Aliases: []string{"tui"},
	Short:   "Review drafts in the terminal UI",
	Long: `Open the interactive review UI on the drafts of one day.

Controls:
  ↑/k, ↓/j - Select draft
  Enter    - Open draft
  a / x    - Approve / reject
  e        - Edit (ctrl+s saves)
  [ / ]    - Previous / next day
  s        - Pull decisions from the review sheet
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewDate, "date", "", "publish date to open (YYYY-MM-DD, default tomorrow)")
	reviewCmd.Flags().StringVar(&reviewBy, "by", "", "reviewer name recorded on approvals (default $USER)")
	reviewCmd.Flags().BoolVar(&reviewWorker, "worker", false, "run the publishing worker while the UI is open")
	rootCmd.AddCommand(reviewCmd)
}

// reviewPorts builds the TUI ports from the installed services.
func reviewPorts() *tui.Ports {
	ports := tui.NewPorts(draftService, searchService, ingestService)
	ports.Sync = syncService
	return ports
}

// reviewerName picks the flag, then $USER, then "tui".
func reviewerName() string {
	if reviewBy != "" {
		return reviewBy
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "tui"
}

func runReview(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if reviewDate != "" {
		if _, err := parseDate(reviewDate); err != nil {
			return err
		}
	}

	app, err := tui.NewApp(reviewPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx := commandContext(cmd)

	// The UI is long-running, so it may host the worker too.
	if reviewWorker && scheduler != nil {
		workerCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		if channelProvider != nil {
			scheduler.Reload(channelProvider.Channels())
		}
		go func() {
			if err := scheduler.Start(workerCtx); err != nil && workerCtx.Err() == nil {
				logger.Warn("worker stopped: %v", err)
			}
		}()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn("worker stop: %v", err)
			}
		}()
	}

	app.WithContext(ctx).WithDate(reviewDate).WithReviewer(reviewerName())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
