package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultTopK is used when a search asks for no limit.
const DefaultTopK = 5

// SearchService ranks the chunks of one source by cosine similarity to a
// query. It scans every chunk; sources are small enough for exact search.
type SearchService struct {
	embedder driven.Embedder
	store    driven.ChunkStore
}

// NewSearchService creates a search service.
func NewSearchService(embedder driven.Embedder, store driven.ChunkStore) *SearchService {
	return &SearchService{embedder: embedder, store: store}
}

// Search returns at most topK chunks of the source, highest score first.
// Equal scores keep chunk order.
func (s *SearchService) Search(ctx context.Context, sourceID, query string, topK int) ([]domain.Hit, error) {
	query = strings.TrimSpace(query)
	if sourceID == "" || query == "" {
		return nil, fmt.Errorf("search: source and query are required: %w", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	res, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if !res.Outcome.IsOK() || len(res.Vectors) != 1 {
		return nil, fmt.Errorf("embedding query (%s): %w", res.Outcome, domain.ErrEmbeddingUnavailable)
	}
	q := res.Vectors[0]

	chunks, err := s.store.List(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("listing chunks for %s: %w", sourceID, err)
	}

	hits := make([]domain.Hit, len(chunks))
	for i, c := range chunks {
		score := 0.0
		if !c.Degraded {
			score = Cosine(q, c.Embedding)
		}
		hits[i] = domain.Hit{SourceID: c.SourceID, Index: c.Index, Text: c.Text, Score: score}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Cosine returns the cosine similarity of a and b in float64, or 0 when
// either vector has zero norm or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
