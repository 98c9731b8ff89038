package postfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripBold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"stars", "a **bold** word", "a bold word"},
		{"underscores", "a __very bold__ word", "a very bold word"},
		{"cyrillic underscores", "это __важно__", "это важно"},
		{"unpaired", "dangling ** marker", "dangling  marker"},
		{"dunder identifier", "override __init__ first", "override __init__ first"},
		{"lone underscores", "snake__case stays", "snake__case stays"},
		{"plain", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripBold{}.Process(tt.in))
		})
	}
}

func TestCollapseBlankLines(t *testing.T) {
	f := CollapseBlankLines{}

	assert.Equal(t, "a\n\nb", f.Process("a\n\n\n\nb"))
	assert.Equal(t, "a\n\nb", f.Process("a\n  \n\t\n\nb"))
	assert.Equal(t, "a\n\nb", f.Process("a\n\nb"), "single blank line is kept")
	assert.Equal(t, "a\nb", f.Process("a\nb"))
	assert.Equal(t, "a\n\nb", f.Process("\n\na\r\n\r\n\r\nb\n\n"))
}

func TestTypographicQuotes(t *testing.T) {
	f := TypographicQuotes{MaxSpan: DefaultQuoteSpan}

	assert.Equal(t, "он сказал «начни с малого»", f.Process(`он сказал "начни с малого"`))
	assert.Equal(t, "«a» and «b»", f.Process(`"a" and "b"`))
	assert.Equal(t, `empty "" stays`, f.Process(`empty "" stays`))
	assert.Equal(t, "unpaired \" stays", f.Process("unpaired \" stays"))
	assert.Equal(t, "\"line\nbreak\"", f.Process("\"line\nbreak\""))
}

func TestTypographicQuotes_SpanLimit(t *testing.T) {
	f := TypographicQuotes{MaxSpan: 5}

	assert.Equal(t, "«short»", f.Process(`"short"`))
	assert.Equal(t, `"too long"`, f.Process(`"too long"`))
}

func TestTypographicQuotes_ZeroSpanUsesDefault(t *testing.T) {
	assert.Equal(t, "«x»", TypographicQuotes{}.Process(`"x"`))
}
