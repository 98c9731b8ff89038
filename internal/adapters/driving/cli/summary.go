package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	summaryRefresh bool
	summaryJSON    bool
	renderChannel  string
)

var summaryCmd = &cobra.Command{
	Use:   "summary [source-id]",
	Short: "Show the structured summary of a source",
	Long: `Builds the summary from probe searches over the source, or returns the
cached one. Use --refresh to drop the cache first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

var renderCmd = &cobra.Command{
	Use:   "render [source-id] [format]",
	Short: "Render one post without saving it",
	Long: `Renders a single post from the source summary.

Formats: announce, insight, practice, case, quote, reflect`,
	Args: cobra.ExactArgs(2),
	RunE: runRender,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryRefresh, "refresh", false, "rebuild instead of using the cache")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output as JSON")
	renderCmd.Flags().StringVarP(&renderChannel, "channel", "c", "", "channel name for the hashtag line")
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(renderCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errNotConfigured("summary service")
	}
	ctx := commandContext(cmd)
	sourceID := args[0]

	if summaryRefresh {
		if err := summaryService.Invalidate(ctx, sourceID); err != nil {
			return fmt.Errorf("dropping cached summary: %w", err)
		}
	}

	s, err := summaryService.EnsureSummary(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}
	if summaryJSON {
		return outputJSON(cmd, s)
	}
	if s.IsEmpty() {
		cmd.Println("Summary is empty (generation unavailable).")
		return nil
	}

	cmd.Printf("%s — %s\n", orNone(s.About.Title), orNone(s.About.Author))
	if s.About.Thesis != "" {
		cmd.Printf("\n%s\n", s.About.Thesis)
	}
	printList(cmd, "Key ideas", s.KeyIdeas)
	for _, p := range s.Practices {
		printList(cmd, "Practice: "+p.Name, p.Steps)
	}
	printList(cmd, "Cases", s.Cases)
	quotes := make([]string, 0, len(s.Quotes))
	for _, q := range s.Quotes {
		quotes = append(quotes, "«"+q.Text+"»")
	}
	printList(cmd, "Quotes", quotes)
	printList(cmd, "Reflection", s.Reflection)
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderService == nil {
		return errNotConfigured("render service")
	}

	out, err := renderService.Render(commandContext(cmd), args[0], args[1], renderChannel)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	cmd.Println(out.Text)
	if !out.Outcome.IsOK() {
		cmd.Printf("\n(generation %s)\n", out.Outcome)
	}
	return nil
}

func printList(cmd *cobra.Command, title string, items []string) {
	if len(items) == 0 {
		return
	}
	cmd.Printf("\n%s:\n", title)
	for _, it := range items {
		cmd.Printf("  - %s\n", strings.TrimSpace(it))
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
