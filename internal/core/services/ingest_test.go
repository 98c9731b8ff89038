package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// paragraphSplitter splits on blank lines.
type paragraphSplitter struct{}

func (paragraphSplitter) Chunk(text string) []string {
	return strings.Split(text, "\n\n")
}

func TestIngestService_Ingest_ContiguousIndices(t *testing.T) {
	store := newMockChunkStore()
	svc := NewIngestService(paragraphSplitter{}, &mockEmbedder{}, store, nil)

	n, err := svc.Ingest(context.Background(), "atomic-habits",
		"a habit\n\n   \n\nidentity   system\n\ncue reward")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	chunks, _ := store.List(context.Background(), "atomic-habits")
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i+1, c.Index)
		assert.Equal(t, "atomic-habits", c.SourceID)
		assert.NotEmpty(t, c.ContentHash)
		assert.Len(t, c.Embedding, len(vocabulary))
	}
	assert.Equal(t, "identity system", chunks[1].Text)
}

func TestIngestService_Ingest_ReusesUnchangedVectors(t *testing.T) {
	ctx := context.Background()
	store := newMockChunkStore()
	embedder := &mockEmbedder{}
	svc := NewIngestService(paragraphSplitter{}, embedder, store, nil)

	_, err := svc.Ingest(ctx, "book", "habit one\n\ngoal two\n\ncue three")
	require.NoError(t, err)
	assert.Len(t, embedder.embeddedTexts(), 3)

	_, err = svc.Ingest(ctx, "book", "habit one\n\ngoal two\n\ncue three")
	require.NoError(t, err)
	assert.Len(t, embedder.embeddedTexts(), 3, "unchanged text is not embedded again")

	_, err = svc.Ingest(ctx, "book", "habit one\n\nreward two\n\ncue three")
	require.NoError(t, err)
	assert.Equal(t, []string{"habit one", "goal two", "cue three", "reward two"}, embedder.embeddedTexts())
}

func TestIngestService_Ingest_DegradedChunksAreRetried(t *testing.T) {
	ctx := context.Background()
	store := newMockChunkStore()
	embedder := &mockEmbedder{degraded: map[string]bool{"goal two": true}}
	svc := NewIngestService(paragraphSplitter{}, embedder, store, nil)

	_, err := svc.Ingest(ctx, "book", "habit one\n\ngoal two")
	require.NoError(t, err)

	stats, err := svc.Sources(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Degraded)

	embedder.degraded = nil
	_, err = svc.Ingest(ctx, "book", "habit one\n\ngoal two")
	require.NoError(t, err)
	assert.Equal(t, []string{"habit one", "goal two", "goal two"}, embedder.embeddedTexts())

	chunks, _ := store.List(ctx, "book")
	assert.False(t, chunks[1].Degraded)
}

func TestIngestService_Ingest_RejectsEmptyInput(t *testing.T) {
	svc := NewIngestService(paragraphSplitter{}, &mockEmbedder{}, newMockChunkStore(), nil)

	_, err := svc.Ingest(context.Background(), "", "text")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(context.Background(), "book", "  \n\n  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_Ingest_EmbedderError(t *testing.T) {
	store := newMockChunkStore()
	svc := NewIngestService(paragraphSplitter{}, &mockEmbedder{err: errBoom}, store, nil)

	_, err := svc.Ingest(context.Background(), "book", "habit")
	require.ErrorIs(t, err, errBoom)

	n, _ := store.Count(context.Background(), "book")
	assert.Zero(t, n)
}

func TestIngestService_Ingest_NoEmbedder(t *testing.T) {
	svc := NewIngestService(paragraphSplitter{}, nil, newMockChunkStore(), nil)

	_, err := svc.Ingest(context.Background(), "book", "habit")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIngestService_IngestSource(t *testing.T) {
	ctx := context.Background()
	fetcher := &mockFetcher{texts: map[string]string{"deep-work": "deep focus\n\nfocus rules"}}
	svc := NewIngestService(paragraphSplitter{}, &mockEmbedder{}, newMockChunkStore(), fetcher)

	n, err := svc.IngestSource(ctx, "deep-work")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.IngestSource(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestService_IngestSource_NoFetcher(t *testing.T) {
	svc := NewIngestService(paragraphSplitter{}, &mockEmbedder{}, newMockChunkStore(), nil)

	_, err := svc.IngestSource(context.Background(), "book")
	assert.ErrorIs(t, err, domain.ErrNoSource)
}

func TestIngestService_EnsureIngested(t *testing.T) {
	ctx := context.Background()
	store := newMockChunkStore()
	store.seed("atomic-habits", "habit", "identity", "system")
	fetcher := &mockFetcher{texts: map[string]string{"deep-work": "deep focus"}}
	svc := NewIngestService(paragraphSplitter{}, &mockEmbedder{}, store, fetcher)

	n, err := svc.EnsureIngested(ctx, "atomic-habits")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Zero(t, fetcher.calls)

	n, err = svc.EnsureIngested(ctx, "deep-work")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, fetcher.calls)
}
