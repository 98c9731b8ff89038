// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/ai/retry"
	openaiembed "github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/embedding/openai"
	openaillm "github.com/MaxSetka1/max-autopost-bot/internal/adapters/driven/llm/openai"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the AI adapters built from settings.
type Services struct {
	Embedder  *openaiembed.Embedder
	Generator *openaillm.Generator
}

// policy builds the retry policy from settings.
func policy(settings domain.OpenAISettings) retry.Policy {
	p := retry.DefaultPolicy()
	p.MaxRetries = settings.MaxRetries
	return p
}

// CreateEmbedder creates the embedding adapter. Returns domain.ErrEmbeddingUnavailable
// when no API key is configured.
func CreateEmbedder(settings domain.OpenAISettings, batchSize int) (*openaiembed.Embedder, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set: %w", domain.ErrEmbeddingUnavailable)
	}
	return openaiembed.New(openaiembed.Config{
		APIKey:    settings.APIKey,
		BaseURL:   settings.BaseURL,
		Model:     settings.EmbedModel,
		BatchSize: batchSize,
		Retry:     policy(settings),
	})
}

// CreateGenerator creates the generation adapter. Returns domain.ErrLLMUnavailable
// when no API key is configured.
func CreateGenerator(settings domain.OpenAISettings) (*openaillm.Generator, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set: %w", domain.ErrLLMUnavailable)
	}
	return openaillm.New(openaillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.ChatModel,
		Retry:   policy(settings),
	})
}

// Create builds both adapters.
func Create(settings *domain.AppSettings) (*Services, error) {
	if settings == nil {
		return nil, domain.ErrInvalidInput
	}
	embedder, err := CreateEmbedder(settings.OpenAI, settings.Pipeline.EmbedBatchSize)
	if err != nil {
		return nil, err
	}
	generator, err := CreateGenerator(settings.OpenAI)
	if err != nil {
		return nil, err
	}
	return &Services{Embedder: embedder, Generator: generator}, nil
}

// EmbedderPort returns the embedder as its port, nil-safe.
func (s *Services) EmbedderPort() driven.Embedder {
	if s == nil || s.Embedder == nil {
		return nil
	}
	return s.Embedder
}

// GeneratorPort returns the generator as its port, nil-safe.
func (s *Services) GeneratorPort() driven.Generator {
	if s == nil || s.Generator == nil {
		return nil
	}
	return s.Generator
}

// Validate pings the API with the configured key.
func Validate(ctx context.Context, settings domain.OpenAISettings) error {
	emb, err := CreateEmbedder(settings, 0)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := emb.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}
