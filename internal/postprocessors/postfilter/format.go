package postfilter

import (
	"regexp"
	"strings"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

var (
	_ driven.PostProcessor = StripBold{}
	_ driven.PostProcessor = CollapseBlankLines{}
	_ driven.PostProcessor = TypographicQuotes{}
)

var (
	boldStars     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnders    = regexp.MustCompile(`__(.+?)__`)
	identifier    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	extraNewlines = regexp.MustCompile(`\n(?:[ \t\r]*\n){2,}`)
)

// StripBold removes markdown bold markers. Unpaired ** markers are dropped
// too. Underscores are left alone unless they pair around a span that is
// not an ASCII identifier, so __init__ and snake__case survive.
type StripBold struct{}

// Name returns the filter name.
func (StripBold) Name() string { return "strip_bold" }

// Process strips ** and __ markers.
func (StripBold) Process(text string) string {
	text = boldStars.ReplaceAllString(text, "$1")
	text = boldUnders.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[2 : len(m)-2]
		if identifier.MatchString(inner) {
			return m
		}
		return inner
	})
	return strings.ReplaceAll(text, "**", "")
}

// CollapseBlankLines reduces runs of two or more blank lines to a single blank line.
type CollapseBlankLines struct{}

// Name returns the filter name.
func (CollapseBlankLines) Name() string { return "collapse_blank_lines" }

// Process collapses blank-line runs and trims the text.
func (CollapseBlankLines) Process(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(extraNewlines.ReplaceAllString(text, "\n\n"))
}

// DefaultQuoteSpan is the longest quoted span converted to guillemets.
const DefaultQuoteSpan = 120

// TypographicQuotes replaces straight double quotes with «» around short spans.
type TypographicQuotes struct {
	// MaxSpan bounds the quoted span in runes; 0 means DefaultQuoteSpan.
	MaxSpan int
}

// Name returns the filter name.
func (TypographicQuotes) Name() string { return "quotes" }

// Process pairs straight quotes left to right. A pair is converted only when
// the span between them is non-empty, within MaxSpan and on one line.
func (q TypographicQuotes) Process(text string) string {
	limit := q.MaxSpan
	if limit <= 0 {
		limit = DefaultQuoteSpan
	}
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(runes); i++ {
		if runes[i] != '"' {
			b.WriteRune(runes[i])
			continue
		}
		end := closingQuote(runes, i+1, limit)
		if end < 0 {
			b.WriteRune(runes[i])
			continue
		}
		b.WriteRune('«')
		b.WriteString(string(runes[i+1 : end]))
		b.WriteRune('»')
		i = end
	}
	return b.String()
}

func closingQuote(runes []rune, from, limit int) int {
	for j := from; j < len(runes) && j-from <= limit; j++ {
		switch runes[j] {
		case '\n':
			return -1
		case '"':
			if j == from {
				return -1
			}
			return j
		}
	}
	return -1
}
