package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the OpenAI, pipeline, review and worker settings.

Environment variables override stored values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store one setting",
	Long:  `Store one setting. Run 'autopost settings keys' for the list of keys.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure OpenAI and the review backend.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[OpenAI]")
	if settings.OpenAI.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.OpenAI.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Base URL: %s\n", orNone(settings.OpenAI.BaseURL))
	cmd.Printf("  Embedding model: %s\n", settings.OpenAI.EmbedModel)
	cmd.Printf("  Chat model: %s\n", settings.OpenAI.ChatModel)
	cmd.Printf("  Max retries: %d\n", settings.OpenAI.MaxRetries)
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Chunk target: %d\n", settings.Pipeline.ChunkTarget)
	cmd.Printf("  Chunk overlap: %d\n", settings.Pipeline.ChunkOverlap)
	cmd.Printf("  Max chunks: %d\n", settings.Pipeline.MaxChunks)
	cmd.Printf("  Embed batch size: %d\n", settings.Pipeline.EmbedBatchSize)
	cmd.Printf("  Probe top-k: %d\n", settings.Pipeline.ProbeTopK)
	cmd.Printf("  Summary TTL: %s\n", settings.Pipeline.SummaryTTL)
	cmd.Println()

	cmd.Println("[Review]")
	cmd.Printf("  Backend: %s\n", settings.Review.Backend)
	switch settings.Review.Backend {
	case domain.ReviewBackendSheets:
		cmd.Printf("  Sheet key: %s\n", orNone(settings.Review.SheetKey))
		cmd.Printf("  Credentials: %s\n", orNone(settings.Review.CredentialsJSON))
	case domain.ReviewBackendXLSX:
		cmd.Printf("  Workbook: %s\n", orNone(settings.Review.WorkbookPath))
	}
	cmd.Printf("  Drive folder: %s\n", orNone(settings.Review.DriveFolderID))
	cmd.Printf("  Books folder: %s\n", orNone(settings.Review.BooksDir))
	cmd.Println()

	cmd.Println("[Worker]")
	cmd.Printf("  Tick: %s\n", settings.Scheduler.TickInterval)
	cmd.Printf("  Control poll: %s\n", settings.Scheduler.ControlPollInterval)
	cmd.Printf("  History limit: %d\n", settings.Scheduler.HistoryLimit)
	cmd.Printf("  Bot API: %s\n", orNone(settings.Sender.APIBase))
	cmd.Printf("  Redis: %s\n", orNone(settings.Cache.RedisURL))
	cmd.Println()

	if !settings.OpenAI.IsConfigured() {
		cmd.Println("Warning: OpenAI API key is not set; posts will be rendered as placeholders.")
		cmd.Println("Run 'autopost settings wizard' to configure it.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s.\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}
	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Autopost Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: OpenAI")
	cmd.Println("--------------")
	if err := configureOpenAI(cmd, reader, current.OpenAI); err != nil {
		return err
	}

	cmd.Println("Step 2: Review backend")
	cmd.Println("----------------------")
	if err := configureReview(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	return nil
}

func configureOpenAI(cmd *cobra.Command, reader *bufio.Reader, current domain.OpenAISettings) error {
	cmd.Print("Enter API key: ")
	apiKey := readPassword(reader)
	cmd.Println()
	if apiKey == "" {
		apiKey = current.APIKey
	}
	if apiKey == "" {
		return errors.New("API key is required")
	}

	cmd.Printf("Enter chat model [%s]: ", current.ChatModel)
	chat := readLine(reader)
	if chat == "" {
		chat = current.ChatModel
	}
	cmd.Printf("Enter embedding model [%s]: ", current.EmbedModel)
	embed := readLine(reader)
	if embed == "" {
		embed = current.EmbedModel
	}

	candidate := current
	candidate.APIKey = apiKey
	candidate.ChatModel = chat
	candidate.EmbedModel = embed

	if validateOpenAI != nil {
		cmd.Print("Validating configuration... ")
		if err := validateOpenAI(commandContext(cmd), candidate); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("OpenAI configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	for key, value := range map[string]string{
		"openai.api_key":     apiKey,
		"openai.chat_model":  chat,
		"openai.embed_model": embed,
	} {
		if err := settingsService.Set(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	cmd.Printf("OpenAI configured: %s / %s\n\n", chat, embed)
	return nil
}

func configureReview(cmd *cobra.Command, reader *bufio.Reader) error {
	backends := []domain.ReviewBackend{domain.ReviewBackendNone, domain.ReviewBackendSheets, domain.ReviewBackendXLSX}
	descriptions := []string{
		"none   - review in the CLI or TUI only",
		"sheets - Google Sheets review workbook",
		"xlsx   - local Excel workbook",
	}
	for i, d := range descriptions {
		cmd.Printf("  %d. %s\n", i+1, d)
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(backends), 1)
	backend := backends[idx-1]

	if err := settingsService.Set("review.backend", backend.String()); err != nil {
		return fmt.Errorf("failed to set review backend: %w", err)
	}

	switch backend {
	case domain.ReviewBackendSheets:
		cmd.Print("Enter spreadsheet key: ")
		key := readLine(reader)
		if key == "" {
			return errors.New("spreadsheet key is required for the sheets backend")
		}
		if err := settingsService.Set("review.sheet_key", key); err != nil {
			return fmt.Errorf("failed to set sheet key: %w", err)
		}
		cmd.Print("Enter service account JSON path (blank to use GOOGLE_SERVICE_ACCOUNT_JSON): ")
		if creds := readLine(reader); creds != "" {
			if err := settingsService.Set("review.credentials_json", creds); err != nil {
				return fmt.Errorf("failed to set credentials: %w", err)
			}
		}
	case domain.ReviewBackendXLSX:
		cmd.Print("Enter workbook path: ")
		path := readLine(reader)
		if path == "" {
			return errors.New("workbook path is required for the xlsx backend")
		}
		if err := settingsService.Set("review.workbook_path", path); err != nil {
			return fmt.Errorf("failed to set workbook path: %w", err)
		}
	}

	cmd.Printf("Review backend set to: %s\n\n", backend)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal and falls back to reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
