package postprocessors

import "github.com/MaxSetka1/max-autopost-bot/internal/postprocessors/postfilter"

// DefaultPipeline returns the standard post chain, in order: strip bold,
// collapse blank lines, strip clickbait, typographic quotes, emoji cap.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		postfilter.StripBold{},
		postfilter.CollapseBlankLines{},
		postfilter.NewClickbait(),
		postfilter.TypographicQuotes{MaxSpan: postfilter.DefaultQuoteSpan},
		postfilter.EmojiCap{},
	)
}
