package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the publishing worker",
	Long: `Starts the worker: publishes approved drafts at their slot time, polls
the control sheet and reloads channel config when it changes.

Stops on SIGINT or SIGTERM.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	if scheduler == nil || channelProvider == nil {
		return errNotConfigured("scheduler")
	}
	ctx := commandContext(cmd)

	scheduler.Reload(channelProvider.Channels())
	logger.Event(logger.TagSchedule, "loaded %d slot(s)", len(scheduler.Entries()))

	if watchChannels != nil {
		go func() {
			err := watchChannels(ctx, func() {
				scheduler.Reload(channelProvider.Channels())
				logger.Event(logger.TagSchedule, "channels reloaded: %d slot(s)", len(scheduler.Entries()))
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("channel watcher stopped: %v", err)
			}
		}()
	}

	err := scheduler.Start(ctx)
	if stopErr := scheduler.Stop(); stopErr != nil {
		logger.Warn("scheduler stop: %v", stopErr)
	}
	if err != nil && !errors.Is(err, ctx.Err()) {
		return fmt.Errorf("worker failed: %w", err)
	}
	cmd.Println("Worker stopped.")
	return nil
}
