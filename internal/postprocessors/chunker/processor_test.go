package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		assert.Equal(t, DefaultTargetSize, c.targetSize)
		assert.Equal(t, DefaultOverlap, c.overlap)
		assert.Zero(t, c.maxChunks)
	})

	t.Run("overlap exceeds target size", func(t *testing.T) {
		c := New(WithTargetSize(100), WithOverlap(150))
		assert.Less(t, c.overlap, c.targetSize)
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		c := New(WithTargetSize(0), WithOverlap(-1), WithMaxChunks(-3))
		assert.Equal(t, DefaultTargetSize, c.targetSize)
		assert.Equal(t, DefaultOverlap, c.overlap)
		assert.Zero(t, c.maxChunks)
	})
}

func TestChunker_Name(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}

func TestChunk_Empty(t *testing.T) {
	assert.Nil(t, New().Chunk(""))
	assert.Nil(t, New().Chunk("\n\n   \n\n"))
}

func TestChunk_PacksParagraphs(t *testing.T) {
	c := New(WithTargetSize(50), WithOverlap(0))

	chunks := c.Chunk("alpha\n\nbeta\n\ngamma")

	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha\n\nbeta\n\ngamma", chunks[0])
}

func TestChunk_OverflowSeedsOverlap(t *testing.T) {
	p1 := strings.Repeat("a", 30)
	p2 := strings.Repeat("b", 30)
	c := New(WithTargetSize(40), WithOverlap(5))

	chunks := c.Chunk(p1 + "\n\n" + p2)

	require.Len(t, chunks, 2)
	assert.Equal(t, p1, chunks[0])
	assert.Equal(t, "aaaaa\n\n"+p2, chunks[1])
}

func TestChunk_OversizedParagraphNotSplit(t *testing.T) {
	big := strings.Repeat("x", 500)
	c := New(WithTargetSize(100), WithOverlap(10))

	chunks := c.Chunk("intro\n\n" + big + "\n\noutro")

	require.Len(t, chunks, 3)
	assert.Equal(t, "intro", chunks[0])
	assert.Contains(t, chunks[1], big)
	assert.True(t, strings.HasSuffix(chunks[2], "outro"))
}

func TestChunk_CoversEveryParagraphInOrder(t *testing.T) {
	var paras []string
	for i := 0; i < 40; i++ {
		paras = append(paras, strings.Repeat(string(rune('a'+i%26)), 20+i*3))
	}
	text := strings.Join(paras, "\n\n")
	c := New(WithTargetSize(200), WithOverlap(30))

	chunks := c.Chunk(text)

	// Every paragraph appears, and first appearances are in source order.
	joined := strings.Join(chunks, "\n\n")
	pos := 0
	for _, p := range paras {
		idx := strings.Index(joined[pos:], p)
		require.GreaterOrEqual(t, idx, 0, "paragraph missing: %q", p)
		pos += idx + len(p)
	}
}

func TestChunk_MaxChunksKeepsPrefix(t *testing.T) {
	text := "one one one\n\ntwo two two\n\nthree three\n\nfour four"
	all := New(WithTargetSize(12), WithOverlap(0)).Chunk(text)
	capped := New(WithTargetSize(12), WithOverlap(0), WithMaxChunks(2)).Chunk(text)

	require.Len(t, all, 4)
	assert.Equal(t, all[:2], capped)
}

func TestChunk_CountsCharactersNotBytes(t *testing.T) {
	p1 := strings.Repeat("ж", 400)
	p2 := strings.Repeat("щ", 400)

	chunks := New(WithTargetSize(1000), WithOverlap(200)).Chunk(p1 + "\n\n" + p2)

	require.Len(t, chunks, 1)
	assert.Equal(t, p1+"\n\n"+p2, chunks[0])
}

func TestChunk_OverlapCountsCharacters(t *testing.T) {
	p1 := strings.Repeat("ж", 20)
	p2 := strings.Repeat("q", 30)
	c := New(WithTargetSize(45), WithOverlap(5))

	chunks := c.Chunk(p1 + "\n\n" + p2)

	require.Len(t, chunks, 2)
	assert.Equal(t, p1, chunks[0])
	assert.Equal(t, "жжжжж\n\n"+p2, chunks[1])
}

func TestTailOf(t *testing.T) {
	assert.Equal(t, "", tailOf("книга", 0))
	assert.Equal(t, "га", tailOf("книга", 2))
	assert.Equal(t, "книга", tailOf("книга", 10))
	assert.Equal(t, "b😀c", tailOf("ab😀c", 3))
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("  first line\nsecond line \r\n\r\n\n third \n \n")
	assert.Equal(t, []string{"first line\nsecond line", "third"}, got)
}
