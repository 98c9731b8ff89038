// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// Embedder generates vector embeddings from text.
//
// Implementations retry rate-limit and transient server failures. When
// retries are exhausted they return zero vectors tagged OutcomeDegraded
// instead of failing, so ingestion never halts. Non-retryable failures
// return OutcomeFatal together with a non-nil error.
type Embedder interface {
	// Embed returns one vector per input text, same length and order.
	Embed(ctx context.Context, texts []string) (EmbedResult, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}

// EmbedResult carries vectors and how they were obtained.
type EmbedResult struct {
	// Vectors holds one embedding per input text.
	Vectors [][]float32

	// Outcome is OK when every batch succeeded, Degraded when any batch fell back.
	Outcome domain.Outcome

	// Degraded flags, per input, whether that vector is a zero placeholder.
	Degraded []bool
}
