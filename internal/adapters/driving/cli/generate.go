package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var generateCmd = &cobra.Command{
	Use:   "generate [channel] [date]",
	Short: "Generate a day of drafts for a channel",
	Long: `Renders one draft per schedule slot of the channel and pushes the rows
to the review sheet. The channel may be given by name or alias.

The date defaults to tomorrow (YYYY-MM-DD). Regenerating a day updates
the existing drafts in place.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if plannerService == nil {
		return errNotConfigured("planner")
	}

	date := time.Now().AddDate(0, 0, 1).Format(dateLayout)
	if len(args) > 1 {
		if _, err := parseDate(args[1]); err != nil {
			return err
		}
		date = args[1]
	}

	n, err := plannerService.GenerateDay(commandContext(cmd), args[0], date)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}
	cmd.Printf("Created %d drafts for %s on %s.\n", n, args[0], date)
	return nil
}

// parseDate validates a YYYY-MM-DD date.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}
