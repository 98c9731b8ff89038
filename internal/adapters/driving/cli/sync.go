package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull review decisions from the review sheet",
	Long: `Reads every row of the drafts sheet and applies status and edits to
the local drafts. Malformed rows and forbidden transitions are skipped.`,
	RunE: runSync,
}

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Process pending control requests once",
	Long: `Executes pending rows of the control sheet (generate, generate_day,
sync, ingest) and writes their status back.`,
	RunE: runControl,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(controlCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errNotConfigured("review sync")
	}

	n, err := syncService.SyncAll(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	cmd.Printf("Applied %d review change(s).\n", n)
	return nil
}

func runControl(cmd *cobra.Command, _ []string) error {
	if controlService == nil {
		return errNotConfigured("control queue")
	}

	n, err := controlService.Poll(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("control poll failed: %w", err)
	}
	cmd.Printf("Processed %d request(s).\n", n)
	return nil
}
