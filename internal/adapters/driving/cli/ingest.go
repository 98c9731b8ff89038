package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest [source-id]",
	Short: "Chunk and embed a source",
	Long: `Fetches the source text, splits it into chunks and stores their embeddings.
Unchanged chunks keep their stored vectors.

With --file the text is read from a local file (txt, md, html, docx)
instead of the configured source.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List ingested sources",
	RunE:  runSources,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "ingest a local file")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest service")
	}
	ctx := commandContext(cmd)
	sourceID := args[0]

	var (
		n   int
		err error
	)
	if ingestFile != "" {
		if readFile == nil {
			return errNotConfigured("file reader")
		}
		text, readErr := readFile(ingestFile)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", ingestFile, readErr)
		}
		n, err = ingestService.Ingest(ctx, sourceID, text)
	} else {
		n, err = ingestService.IngestSource(ctx, sourceID)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s: %d chunks\n", sourceID, n)
	return nil
}

func runSources(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest service")
	}

	stats, err := ingestService.Sources(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}
	if len(stats) == 0 {
		cmd.Println("No sources ingested.")
		return nil
	}

	cmd.Printf("%-40s %8s %9s\n", "SOURCE", "CHUNKS", "DEGRADED")
	for _, s := range stats {
		cmd.Printf("%-40s %8d %9d\n", s.SourceID, s.Chunks, s.Degraded)
	}
	return nil
}
