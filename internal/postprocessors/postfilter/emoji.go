package postfilter

import (
	"strings"
	"unicode/utf8"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

var _ driven.PostProcessor = EmojiCap{}

const (
	zwj            = '\u200d'
	variationSel16 = '\ufe0f'
)

// EmojiBudget returns how many emoji a body of n runes may keep.
func EmojiBudget(n int) int {
	switch {
	case n < 400:
		return 1
	case n < 800:
		return 2
	default:
		return 3
	}
}

// EmojiCap drops emoji beyond the length-dependent budget. The first emoji
// in reading order survive. Nothing is ever inserted.
type EmojiCap struct{}

// Name returns the filter name.
func (EmojiCap) Name() string { return "emoji_cap" }

// Process applies the budget to text.
func (EmojiCap) Process(text string) string {
	budget := EmojiBudget(utf8.RuneCountInString(text))
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	kept := 0
	for i := 0; i < len(runes); {
		if !isEmoji(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		end := emojiSequenceEnd(runes, i)
		if kept < budget {
			b.WriteString(string(runes[i:end]))
			kept++
		}
		i = end
	}
	if kept == CountEmoji(text) {
		return text
	}
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(doubleSpace.ReplaceAllString(line, " "), " \t")
	}
	return strings.Join(lines, "\n")
}

// CountEmoji counts emoji sequences in text. A ZWJ sequence, a flag pair or
// an emoji with modifiers counts once.
func CountEmoji(text string) int {
	runes := []rune(text)
	n := 0
	for i := 0; i < len(runes); {
		if isEmoji(runes[i]) {
			i = emojiSequenceEnd(runes, i)
			n++
			continue
		}
		i++
	}
	return n
}

// emojiSequenceEnd returns the index just past the sequence starting at i.
func emojiSequenceEnd(runes []rune, i int) int {
	if isRegionalIndicator(runes[i]) {
		if i+1 < len(runes) && isRegionalIndicator(runes[i+1]) {
			return i + 2
		}
		return i + 1
	}
	j := i + 1
	for j < len(runes) {
		switch {
		case runes[j] == variationSel16 || isSkinTone(runes[j]):
			j++
		case runes[j] == zwj && j+1 < len(runes) && isEmoji(runes[j+1]):
			j += 2
		default:
			return j
		}
	}
	return j
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case isRegionalIndicator(r):
		return true
	case r == 0x2B50 || r == 0x2B55 || r == 0x2B06 || r == 0x2B07 || r == 0x2B05 || r == 0x2B1B || r == 0x2B1C:
		return true
	case r == 0x231A || r == 0x231B || r == 0x23F0 || r == 0x23F3:
		return true
	case r >= 0x23E9 && r <= 0x23EF:
		return true
	case r == 0x3030 || r == 0x303D:
		return true
	}
	return false
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

func isSkinTone(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}
