package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

// snippetLen bounds the chunk text printed per hit.
const snippetLen = 160

var searchCmd = &cobra.Command{
	Use:   "search [source-id] [query]",
	Short: "Search within one source",
	Long: `Ranks the chunks of one source by cosine similarity to the query.
Chunks with degraded embeddings rank last.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured("search service")
	}

	hits, err := searchService.Search(commandContext(cmd), args[0], args[1], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, hits)
	}
	return outputSearchTable(cmd, hits)
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.Hit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, h := range hits {
		cmd.Printf("  [%d] chunk #%d (%.3f)\n", i+1, h.Index, h.Score)
		cmd.Printf("      %s\n\n", truncate(h.Text, snippetLen))
	}
	return nil
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
