package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the source catalog",
	Long: `The catalog lists the books available for automatic selection.
Entries move from new to in_progress to used as days are generated.`,
	RunE: runCatalogList,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	RunE:  runCatalogList,
}

var catalogDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Add newly found source files to the catalog",
	RunE:  runCatalogDiscover,
}

func init() {
	catalogCmd.PersistentFlags().BoolVar(&catalogJSON, "json", false, "output as JSON")
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogDiscoverCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	if sourceCatalog == nil {
		return errNotConfigured("source catalog")
	}

	entries, err := sourceCatalog.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("listing catalog: %w", err)
	}
	if catalogJSON {
		return outputJSON(cmd, entries)
	}
	printCatalog(cmd, entries)
	return nil
}

func runCatalogDiscover(cmd *cobra.Command, _ []string) error {
	if sourceCatalog == nil || sourceDiscoverer == nil {
		return errNotConfigured("source discovery")
	}
	ctx := commandContext(cmd)

	existing, err := sourceCatalog.List(ctx)
	if err != nil {
		return fmt.Errorf("listing catalog: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.ID] = true
	}

	found, err := sourceDiscoverer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discovering sources: %w", err)
	}

	var added []domain.CatalogEntry
	for _, e := range found {
		if known[e.ID] {
			continue
		}
		known[e.ID] = true
		if e.Status == "" {
			e.Status = domain.CatalogNew
		}
		added = append(added, e)
	}
	if len(added) == 0 {
		cmd.Println("No new sources found.")
		return nil
	}

	if err := sourceCatalog.Append(ctx, added); err != nil {
		return fmt.Errorf("updating catalog: %w", err)
	}
	cmd.Printf("Added %d source(s) to the catalog.\n", len(added))
	if catalogJSON {
		return outputJSON(cmd, added)
	}
	printCatalog(cmd, added)
	return nil
}

func printCatalog(cmd *cobra.Command, entries []domain.CatalogEntry) {
	if len(entries) == 0 {
		cmd.Println("Catalog is empty.")
		return
	}
	cmd.Printf("%-34s %-12s %-24s %s\n", "ID", "STATUS", "AUTHOR", "TITLE")
	for _, e := range entries {
		cmd.Printf("%-34s %-12s %-24s %s\n", e.ID, e.Status, truncate(e.Author, 24), e.Title)
	}
}
