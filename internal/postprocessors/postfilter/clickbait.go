package postfilter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

var _ driven.PostProcessor = (*Clickbait)(nil)

// Openers are removed only at the start of a line, with trailing punctuation.
var defaultOpeners = []string{
	`вы не поверите`,
	`представьте себе`,
	`представьте`,
	`друзья`,
	`дорогие друзья`,
	`давайте разберёмся`,
	`давайте разберемся`,
	`знаете ли вы`,
	`а вы знали`,
	`сегодня поговорим о том,? (?:как|что)`,
	`в этом посте`,
	`шок`,
	`you won'?t believe`,
	`imagine this`,
	`did you know`,
	`in this post`,
	`let'?s dive in`,
	`hey friends`,
}

// Fillers are removed wherever they occur.
var defaultFillers = []string{
	`в современном мире`,
	`как известно`,
	`ни для кого не секрет,? что`,
	`стоит отметить,? что`,
	`важно понимать,? что`,
	`it goes without saying that`,
	`needless to say`,
	`at the end of the day`,
}

var doubleSpace = regexp.MustCompile(`[ \t]{2,}`)

// Clickbait strips clickbait openers and filler phrases.
type Clickbait struct {
	openers *regexp.Regexp
	fillers *regexp.Regexp
}

// NewClickbait builds the filter from the default RU and EN phrase lists.
func NewClickbait() *Clickbait {
	return NewClickbaitWith(defaultOpeners, defaultFillers)
}

// NewClickbaitWith builds the filter from custom phrase patterns.
// Patterns are case-insensitive regular expressions.
func NewClickbaitWith(openers, fillers []string) *Clickbait {
	c := &Clickbait{}
	if len(openers) > 0 {
		c.openers = regexp.MustCompile(`(?i)^[ \t]*(?:` + strings.Join(openers, "|") + `)(?:[ \t]*[,.!?:…—-]+[ \t]*|[ \t]+|$)`)
	}
	if len(fillers) > 0 {
		c.fillers = regexp.MustCompile(`(?i),?[ \t]*(?:` + strings.Join(fillers, "|") + `)[ \t]*,?[ \t]*`)
	}
	return c
}

// Name returns the filter name.
func (c *Clickbait) Name() string { return "clickbait" }

// Process removes the phrases line by line and re-capitalises lines that changed.
func (c *Clickbait) Process(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		orig := line
		if c.openers != nil {
			line = c.openers.ReplaceAllString(line, "")
		}
		if c.fillers != nil {
			line = c.fillers.ReplaceAllString(line, " ")
		}
		if line != orig {
			line = capitalise(strings.TrimSpace(doubleSpace.ReplaceAllString(line, " ")))
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func capitalise(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
