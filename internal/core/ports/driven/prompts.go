package driven

// PromptStore serves the prompt templates used for summaries and posts.
// Operators override them by editing files in the prompts directory.
type PromptStore interface {
	// Load returns the template for name, falling back to the built-in
	// default. Unknown names return an error.
	Load(name string) (string, error)

	// Reload drops cached templates so edits on disk take effect.
	Reload()
}

// Prompt names.
const (
	// PromptSummarySystem is the system prompt for structured summarisation.
	// It has no format placeholders.
	PromptSummarySystem = "summary_system"

	// PromptRenderSystem is the system prompt for post writing.
	// It has no format placeholders.
	PromptRenderSystem = "render_system"

	// PromptFormatPrefix prefixes per-format instruction templates,
	// e.g. "format_announce". Templates have no format placeholders.
	PromptFormatPrefix = "format_"
)

// PromptStoreAware is implemented by services whose prompts can be
// overridden after construction. Without a store they use built-in prompts.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
