package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

var (
	draftsChannel string
	draftsDate    string
	draftsStatus  string
	draftsLimit   int
	draftsJSON    bool
	approveBy     string
)

// previewLen bounds the text printed per draft in lists.
const previewLen = 60

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Review drafts",
	Long: `List, approve, reject and edit drafts.

Only approved drafts are published. Sent and rejected drafts are final.`,
	RunE: runDraftsList,
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts",
	RunE:  runDraftsList,
}

var draftsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftsShow,
}

var draftsApproveCmd = &cobra.Command{
	Use:   "approve [id]",
	Short: "Approve a draft for publishing",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftsApprove,
}

var draftsRejectCmd = &cobra.Command{
	Use:   "reject [id]",
	Short: "Reject a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftsReject,
}

var draftsEditCmd = &cobra.Command{
	Use:   "edit [id] [text]",
	Short: "Replace the text that will be published",
	Args:  cobra.ExactArgs(2),
	RunE:  runDraftsEdit,
}

func init() {
	for _, c := range []*cobra.Command{draftsCmd, draftsListCmd} {
		c.Flags().StringVar(&draftsChannel, "channel", "", "filter by channel name")
		c.Flags().StringVar(&draftsDate, "date", "", "filter by publish date (YYYY-MM-DD)")
		c.Flags().StringVar(&draftsStatus, "status", "", "filter by status (new, approved, sent, rejected)")
		c.Flags().IntVarP(&draftsLimit, "limit", "n", 50, "maximum number of drafts")
		c.Flags().BoolVar(&draftsJSON, "json", false, "output as JSON")
	}
	draftsApproveCmd.Flags().StringVar(&approveBy, "by", "", "reviewer name (required)")

	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsShowCmd)
	draftsCmd.AddCommand(draftsApproveCmd)
	draftsCmd.AddCommand(draftsRejectCmd)
	draftsCmd.AddCommand(draftsEditCmd)
	rootCmd.AddCommand(draftsCmd)
}

func runDraftsList(cmd *cobra.Command, _ []string) error {
	if draftService == nil {
		return errNotConfigured("draft service")
	}

	filter := domain.DraftFilter{Channel: draftsChannel, Date: draftsDate, Limit: draftsLimit}
	if draftsStatus != "" {
		status, ok := domain.ParseDraftStatus(draftsStatus)
		if !ok {
			return fmt.Errorf("unknown status %q", draftsStatus)
		}
		filter.Status = status
	}

	drafts, err := draftService.List(commandContext(cmd), filter)
	if err != nil {
		return fmt.Errorf("listing drafts: %w", err)
	}
	if draftsJSON {
		return outputJSON(cmd, drafts)
	}
	if len(drafts) == 0 {
		cmd.Println("No drafts found.")
		return nil
	}

	cmd.Printf("%-6s %-10s %-5s %-16s %-9s %-9s %s\n", "ID", "DATE", "TIME", "CHANNEL", "FORMAT", "STATUS", "TEXT")
	for i := range drafts {
		d := &drafts[i]
		cmd.Printf("%-6d %-10s %-5s %-16s %-9s %-9s %s\n",
			d.ID, d.PublishDate, d.PublishTime, d.Channel, d.Format, d.Status,
			truncate(d.EffectiveText(), previewLen))
	}
	return nil
}

func runDraftsShow(cmd *cobra.Command, args []string) error {
	if draftService == nil {
		return errNotConfigured("draft service")
	}
	id, err := parseDraftID(args[0])
	if err != nil {
		return err
	}

	d, err := draftService.Get(commandContext(cmd), id)
	if err != nil {
		return fmt.Errorf("getting draft: %w", err)
	}

	cmd.Printf("Draft:   %d\n", d.ID)
	cmd.Printf("Channel: %s\n", d.Channel)
	cmd.Printf("Slot:    %s %s (%s)\n", d.PublishDate, d.PublishTime, d.Format)
	cmd.Printf("Source:  %s\n", d.SourceID)
	cmd.Printf("Status:  %s\n", d.Status)
	if d.ApprovedBy != "" {
		cmd.Printf("Approved by %s at %s\n", d.ApprovedBy, d.ApprovedAt.Format("2006-01-02 15:04"))
	}
	if !d.SentAt.IsZero() {
		cmd.Printf("Sent at: %s\n", d.SentAt.Format("2006-01-02 15:04"))
	}
	cmd.Println()
	cmd.Println(d.Text)
	if strings.TrimSpace(d.EditedText) != "" {
		cmd.Println()
		cmd.Println("Edited:")
		cmd.Println(d.EditedText)
	}
	return nil
}

func runDraftsApprove(cmd *cobra.Command, args []string) error {
	if draftService == nil {
		return errNotConfigured("draft service")
	}
	id, err := parseDraftID(args[0])
	if err != nil {
		return err
	}
	if strings.TrimSpace(approveBy) == "" {
		return fmt.Errorf("--by is required")
	}

	if err := draftService.Approve(commandContext(cmd), id, approveBy); err != nil {
		return fmt.Errorf("approving draft %d: %w", id, err)
	}
	cmd.Printf("Draft %d approved by %s.\n", id, approveBy)
	return nil
}

func runDraftsReject(cmd *cobra.Command, args []string) error {
	if draftService == nil {
		return errNotConfigured("draft service")
	}
	id, err := parseDraftID(args[0])
	if err != nil {
		return err
	}

	if err := draftService.Reject(commandContext(cmd), id); err != nil {
		return fmt.Errorf("rejecting draft %d: %w", id, err)
	}
	cmd.Printf("Draft %d rejected.\n", id)
	return nil
}

func runDraftsEdit(cmd *cobra.Command, args []string) error {
	if draftService == nil {
		return errNotConfigured("draft service")
	}
	id, err := parseDraftID(args[0])
	if err != nil {
		return err
	}

	if err := draftService.Edit(commandContext(cmd), id, args[1]); err != nil {
		return fmt.Errorf("editing draft %d: %w", id, err)
	}
	cmd.Printf("Draft %d updated.\n", id)
	return nil
}

func parseDraftID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid draft id %q", s)
	}
	return id, nil
}
