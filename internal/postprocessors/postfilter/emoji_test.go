package postfilter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bodyOfLength pads prefix with ASCII so the result has n runes.
func bodyOfLength(t *testing.T, prefix string, n int) string {
	t.Helper()
	pad := n - utf8.RuneCountInString(prefix)
	require.GreaterOrEqual(t, pad, 0)
	return prefix + strings.Repeat("a", pad)
}

func TestEmojiBudget(t *testing.T) {
	assert.Equal(t, 1, EmojiBudget(0))
	assert.Equal(t, 1, EmojiBudget(350))
	assert.Equal(t, 1, EmojiBudget(399))
	assert.Equal(t, 2, EmojiBudget(400))
	assert.Equal(t, 2, EmojiBudget(600))
	assert.Equal(t, 2, EmojiBudget(799))
	assert.Equal(t, 3, EmojiBudget(800))
	assert.Equal(t, 3, EmojiBudget(1000))
}

func TestEmojiCap_ByLength(t *testing.T) {
	prefix := "🔥 one ✅ two 💡 three 🚀 four "
	tests := []struct {
		length int
		keep   []string
		drop   []string
	}{
		{350, []string{"🔥"}, []string{"✅", "💡", "🚀"}},
		{600, []string{"🔥", "✅"}, []string{"💡", "🚀"}},
		{1000, []string{"🔥", "✅", "💡"}, []string{"🚀"}},
	}
	for _, tt := range tests {
		body := bodyOfLength(t, prefix, tt.length)
		out := EmojiCap{}.Process(body)

		assert.Equal(t, len(tt.keep), CountEmoji(out), "length %d", tt.length)
		for _, e := range tt.keep {
			assert.Contains(t, out, e, "length %d", tt.length)
		}
		for _, e := range tt.drop {
			assert.NotContains(t, out, e, "length %d", tt.length)
		}
	}
}

func TestEmojiCap_UnderBudgetUnchanged(t *testing.T) {
	in := "Одна мысль 💡"

	assert.Equal(t, in, EmojiCap{}.Process(in))
}

func TestEmojiCap_NeverInserts(t *testing.T) {
	in := "no emoji at all"

	assert.Equal(t, in, EmojiCap{}.Process(in))
}

func TestEmojiCap_DropsTrailingSpace(t *testing.T) {
	assert.Equal(t, "end 🔥", EmojiCap{}.Process("end 🔥 🔥"))
}

func TestCountEmoji_Sequences(t *testing.T) {
	assert.Equal(t, 1, CountEmoji("👍🏽"), "skin tone modifier")
	assert.Equal(t, 1, CountEmoji("❤️"), "variation selector")
	assert.Equal(t, 1, CountEmoji("👨‍👩‍👧"), "zwj family")
	assert.Equal(t, 1, CountEmoji("🇷🇺"), "flag pair")
	assert.Equal(t, 2, CountEmoji("🔥 text 🔥"))
	assert.Equal(t, 0, CountEmoji("«plain» — text"))
}
