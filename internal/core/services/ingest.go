package services

import (
	"context"
	"fmt"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Splitter cuts source text into ordered chunk texts.
type Splitter interface {
	Chunk(text string) []string
}

// IngestService chunks, embeds and stores source text.
type IngestService struct {
	splitter Splitter
	embedder driven.Embedder
	store    driven.ChunkStore
	fetcher  driven.SourceFetcher
}

// NewIngestService creates an ingest service. fetcher may be nil, in
// which case only Ingest with explicit text works.
func NewIngestService(
	splitter Splitter,
	embedder driven.Embedder,
	store driven.ChunkStore,
	fetcher driven.SourceFetcher,
) *IngestService {
	return &IngestService{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		fetcher:  fetcher,
	}
}

// Ingest chunks text, embeds the chunks and replaces what is stored for
// the source. Chunks whose content hash is unchanged keep their stored
// vector instead of being embedded again.
func (s *IngestService) Ingest(ctx context.Context, sourceID, text string) (int, error) {
	if sourceID == "" {
		return 0, fmt.Errorf("ingest: empty source id: %w", domain.ErrInvalidInput)
	}

	texts := s.splitter.Chunk(text)
	chunks := make([]domain.Chunk, 0, len(texts))
	for _, t := range texts {
		if t = domain.NormalizeWhitespace(t); t == "" {
			continue
		}
		idx := len(chunks) + 1
		chunks = append(chunks, domain.Chunk{
			SourceID:    sourceID,
			Index:       idx,
			Text:        t,
			ContentHash: domain.ContentHash(sourceID, idx, t),
		})
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("ingest %s: no text: %w", sourceID, domain.ErrInvalidInput)
	}

	reused, err := s.reuseVectors(ctx, sourceID, chunks)
	if err != nil {
		return 0, err
	}

	var pending []int
	for i := range chunks {
		if chunks[i].Embedding == nil {
			pending = append(pending, i)
		}
	}

	degraded := 0
	if len(pending) > 0 {
		if s.embedder == nil {
			return 0, fmt.Errorf("ingest %s: %w", sourceID, domain.ErrEmbeddingUnavailable)
		}
		batch := make([]string, len(pending))
		for j, i := range pending {
			batch[j] = chunks[i].Text
		}
		res, err := s.embedder.Embed(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("embedding %s: %w", sourceID, err)
		}
		if len(res.Vectors) != len(batch) {
			return 0, fmt.Errorf("embedding %s: got %d vectors for %d chunks", sourceID, len(res.Vectors), len(batch))
		}
		for j, i := range pending {
			chunks[i].Embedding = res.Vectors[j]
			if j < len(res.Degraded) && res.Degraded[j] {
				chunks[i].Degraded = true
				degraded++
			}
		}
	}

	n, err := s.store.Upsert(ctx, sourceID, chunks)
	if err != nil {
		return 0, fmt.Errorf("storing %s: %w", sourceID, err)
	}

	logger.Event(logger.TagIngest, "%s: %d chunks (%d reused, %d degraded)", sourceID, n, reused, degraded)
	return n, nil
}

// reuseVectors copies stored vectors onto chunks with a matching hash.
// Degraded vectors are never reused.
func (s *IngestService) reuseVectors(ctx context.Context, sourceID string, chunks []domain.Chunk) (int, error) {
	stored, err := s.store.List(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("listing stored chunks for %s: %w", sourceID, err)
	}
	byIndex := make(map[int]domain.Chunk, len(stored))
	for _, c := range stored {
		byIndex[c.Index] = c
	}

	reused := 0
	for i := range chunks {
		old, ok := byIndex[chunks[i].Index]
		if !ok || old.Degraded || len(old.Embedding) == 0 || old.ContentHash != chunks[i].ContentHash || old.Text != chunks[i].Text {
			continue
		}
		chunks[i].Embedding = old.Embedding
		reused++
	}
	return reused, nil
}

// IngestSource fetches the source text upstream and ingests it.
func (s *IngestService) IngestSource(ctx context.Context, sourceID string) (int, error) {
	if s.fetcher == nil {
		return 0, fmt.Errorf("ingest %s: no source fetcher configured: %w", sourceID, domain.ErrNoSource)
	}
	text, err := s.fetcher.FetchText(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", sourceID, err)
	}
	return s.Ingest(ctx, sourceID, text)
}

// EnsureIngested ingests the source only when nothing is stored for it.
func (s *IngestService) EnsureIngested(ctx context.Context, sourceID string) (int, error) {
	n, err := s.store.Count(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("counting chunks for %s: %w", sourceID, err)
	}
	if n > 0 {
		logger.Debug("ingest: %s already has %d chunks", sourceID, n)
		return n, nil
	}
	return s.IngestSource(ctx, sourceID)
}

// Sources lists what is stored.
func (s *IngestService) Sources(ctx context.Context) ([]domain.SourceStats, error) {
	return s.store.Sources(ctx)
}
