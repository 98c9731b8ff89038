package cli

import (
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the publication calendar",
	Long: `Lists every enabled slot of every channel with its local time and the
equivalent UTC time used by the worker.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if scheduler == nil || channelProvider == nil {
		return errNotConfigured("scheduler")
	}

	scheduler.Reload(channelProvider.Channels())
	entries := scheduler.Entries()
	if len(entries) == 0 {
		cmd.Println("No scheduled slots.")
		return nil
	}

	cmd.Printf("%-16s %-12s %-9s %-6s %-18s %s\n", "CHANNEL", "ALIAS", "FORMAT", "LOCAL", "TIMEZONE", "UTC")
	for _, e := range entries {
		cmd.Printf("%-16s %-12s %-9s %-6s %-18s %s\n",
			e.Channel, e.Alias, e.Format, e.LocalTime, e.Timezone, e.UTCTime)
	}
	return nil
}
