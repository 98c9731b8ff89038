package driven

// PostProcessor rewrites generated post text.
// PostProcessors are chained in a pipeline (bold stripping, blank-line
// collapsing, clickbait removal, quote normalisation, emoji capping).
type PostProcessor interface {
	// Name returns the processor name for logging.
	Name() string

	// Process returns the rewritten text.
	Process(text string) string
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the text through all processors in order.
	Process(text string) string
}
