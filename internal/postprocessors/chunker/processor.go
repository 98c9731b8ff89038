// Package chunker splits source text into overlapping, size-bounded chunks.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultTargetSize is the default chunk size in characters.
const DefaultTargetSize = 1200

// DefaultOverlap is the default number of characters carried into the next chunk.
const DefaultOverlap = 200

// paragraphSep matches blank-line paragraph boundaries.
var paragraphSep = regexp.MustCompile(`\n[ \t\r]*\n`)

// Chunker packs paragraphs greedily into chunks of at most targetSize
// characters. A paragraph longer than targetSize becomes its own chunk and
// is never split.
type Chunker struct {
	targetSize int
	overlap    int
	maxChunks  int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithTargetSize sets the target chunk size in characters.
func WithTargetSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.targetSize = size
		}
	}
}

// WithOverlap sets how many trailing characters of a closed chunk seed the next one.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithMaxChunks caps the number of chunks returned. The earliest chunks
// are kept. Zero means no cap.
func WithMaxChunks(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.maxChunks = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		targetSize: DefaultTargetSize,
		overlap:    DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed target size
	if c.overlap >= c.targetSize {
		c.overlap = c.targetSize / 4
	}

	return c
}

// Name returns the chunker name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Paragraphs splits text on blank lines and drops empty paragraphs.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := paragraphSep.Split(text, -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Chunk splits text into ordered chunk texts.
func (c *Chunker) Chunk(text string) []string {
	paragraphs := Paragraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []string
	buf := ""
	bufLen := 0

	for _, p := range paragraphs {
		pLen := utf8.RuneCountInString(p)
		if bufLen+pLen+1 <= c.targetSize {
			if buf == "" {
				buf, bufLen = p, pLen
			} else {
				buf, bufLen = buf+"\n\n"+p, bufLen+2+pLen
			}
			continue
		}

		tail := ""
		if buf != "" {
			chunks = append(chunks, buf)
			if c.reachedCap(len(chunks)) {
				return chunks
			}
			tail = tailOf(buf, c.overlap)
		}
		buf = strings.TrimSpace(tail + "\n\n" + p)
		bufLen = utf8.RuneCountInString(buf)
	}

	if buf != "" {
		chunks = append(chunks, buf)
	}
	if c.maxChunks > 0 && len(chunks) > c.maxChunks {
		chunks = chunks[:c.maxChunks]
	}
	return chunks
}

func (c *Chunker) reachedCap(n int) bool {
	return c.maxChunks > 0 && n >= c.maxChunks
}

// tailOf returns the last n characters of s.
func tailOf(s string, n int) string {
	if n <= 0 {
		return ""
	}
	start := len(s)
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:start])
		start -= size
	}
	return s[start:]
}
