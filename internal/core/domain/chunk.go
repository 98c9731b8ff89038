package domain

import (
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// hashPrefixLen is how many leading characters of a chunk feed its content hash.
const hashPrefixLen = 64

// Chunk is a bounded contiguous slice of source text with its embedding.
type Chunk struct {
	// SourceID identifies the ingested document (e.g. a book).
	SourceID string

	// Index is the 1-based position of the chunk within its source.
	Index int

	// Text is the whitespace-normalised chunk text.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// ContentHash fingerprints (source, index, text prefix) for drift detection.
	ContentHash string

	// Degraded marks a chunk whose embedding is a zero-vector placeholder.
	Degraded bool

	// UpdatedAt is when the chunk was last written.
	UpdatedAt time.Time
}

// Hit is one retrieval result.
type Hit struct {
	// SourceID identifies the source the chunk belongs to.
	SourceID string

	// Index is the chunk index within the source.
	Index int

	// Text is the chunk text.
	Text string

	// Score is the cosine similarity between query and chunk.
	Score float64
}

// SourceStats summarises what is stored for one source.
type SourceStats struct {
	SourceID string
	Chunks   int
	Degraded int
}

// NormalizeWhitespace collapses every whitespace run to one space and trims.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContentHash returns the hex sha1 of "{sourceID}:{index}:{first 64 chars of text}".
func ContentHash(sourceID string, index int, text string) string {
	prefix := text
	if utf8.RuneCountInString(prefix) > hashPrefixLen {
		prefix = string([]rune(prefix)[:hashPrefixLen])
	}
	sum := sha1.Sum([]byte(sourceID + ":" + strconv.Itoa(index) + ":" + prefix)) //nolint:gosec // fingerprint
	return hex.EncodeToString(sum[:])
}
