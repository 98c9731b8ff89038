package driven

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// Generator provides language model text generation.
//
// Like Embedder, implementations retry transient failures and report
// exhaustion as OutcomeDegraded rather than an error.
type Generator interface {
	// Generate produces a completion for the request.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// GenerateRequest configures one generation call.
type GenerateRequest struct {
	// System is the system prompt.
	System string

	// User is the user prompt.
	User string

	// Schema, when set, asks for JSON output matching this JSON schema.
	Schema map[string]any

	// SchemaName names the schema for providers that require it.
	SchemaName string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// GenerateResult is the generated text and how it was obtained.
type GenerateResult struct {
	Text    string
	Outcome domain.Outcome
}
