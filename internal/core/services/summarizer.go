package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Ensure SummaryService implements the interfaces.
var (
	_ driving.SummaryService  = (*SummaryService)(nil)
	_ driven.PromptStoreAware = (*SummaryService)(nil)
)

// Context limits for summarisation.
const (
	DefaultProbeTopK   = 8
	MaxFragments       = 60
	MaxContextRunes    = 40000
	fragmentSeparator  = "\n\n---\n\n"
	summarySchemaName  = "book_summary"
	summaryMaxTokens   = 1800
	summaryTemperature = 0.2
)

// Probes are the topic queries whose hits form the summary context, in order.
var Probes = []string{
	"core idea",
	"key principles",
	"step-by-step practices",
	"illustrative cases",
	"strong quotable lines",
	"audience & usage",
}

// SummaryService builds one structured summary per source from probe hits.
type SummaryService struct {
	search    driving.SearchService
	generator driven.Generator
	cache     driven.SummaryCache
	prompts   promptLoader
	topK      int
}

// NewSummaryService creates a summary service. cache may be nil.
func NewSummaryService(
	search driving.SearchService,
	generator driven.Generator,
	cache driven.SummaryCache,
	topK int,
) *SummaryService {
	if topK <= 0 {
		topK = DefaultProbeTopK
	}
	return &SummaryService{
		search:    search,
		generator: generator,
		cache:     cache,
		topK:      topK,
	}
}

// SetPromptStore sets the prompt store for the system prompt.
func (s *SummaryService) SetPromptStore(store driven.PromptStore) {
	s.prompts.store = store
}

// EnsureSummary returns the cached summary or builds one. A failed or
// unparsable generation yields an empty summary that is not cached.
func (s *SummaryService) EnsureSummary(ctx context.Context, sourceID string) (*domain.Summary, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, sourceID)
		if err != nil {
			logger.Warn("summary cache get %s: %v", sourceID, err)
		} else if ok {
			return cached, nil
		}
	}

	material, err := s.BuildContext(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, domain.ErrLLMUnavailable
	}

	res, err := s.generator.Generate(ctx, driven.GenerateRequest{
		System:      s.prompts.load(driven.PromptSummarySystem),
		User:        "Фрагменты книги:\n\n" + material,
		Schema:      SummarySchema(),
		SchemaName:  summarySchemaName,
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil || !res.Outcome.IsOK() {
		logger.Warn("summary %s: generation %s: %v", sourceID, res.Outcome, err)
		return domain.EmptySummary(), nil
	}

	summary, err := ParseSummary(res.Text)
	if err != nil {
		logger.Warn("summary %s: %v", sourceID, err)
		return domain.EmptySummary(), nil
	}

	if s.cache != nil && !summary.IsEmpty() {
		if err := s.cache.Set(ctx, sourceID, summary); err != nil {
			logger.Warn("summary cache set %s: %v", sourceID, err)
		}
	}
	return summary, nil
}

// Invalidate drops a cached summary.
func (s *SummaryService) Invalidate(ctx context.Context, sourceID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, sourceID)
}

// BuildContext runs every probe and joins the distinct hits in probe
// order, capped at MaxFragments and MaxContextRunes. A source with no
// stored chunks returns domain.ErrNotFound.
func (s *SummaryService) BuildContext(ctx context.Context, sourceID string) (string, error) {
	seen := make(map[string]bool)
	var fragments []string

probes:
	for _, probe := range Probes {
		hits, err := s.search.Search(ctx, sourceID, probe, s.topK)
		if err != nil {
			return "", fmt.Errorf("probe %q: %w", probe, err)
		}
		for _, h := range hits {
			if seen[h.Text] {
				continue
			}
			seen[h.Text] = true
			fragments = append(fragments, h.Text)
			if len(fragments) >= MaxFragments {
				break probes
			}
		}
	}

	if len(fragments) == 0 {
		return "", fmt.Errorf("no context for %s: %w", sourceID, domain.ErrNotFound)
	}
	return truncateRunes(strings.Join(fragments, fragmentSeparator), MaxContextRunes), nil
}

// ParseSummary decodes a generated summary, tolerating a fenced code block.
func ParseSummary(text string) (*domain.Summary, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty summary response")
	}

	var s domain.Summary
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	s.Normalize()
	return &s, nil
}

// SummarySchema returns the JSON schema of domain.Summary.
func SummarySchema() map[string]any {
	str := map[string]any{"type": "string"}
	strList := map[string]any{"type": "array", "items": str}
	object := func(props map[string]any) map[string]any {
		required := make([]string, 0, len(props))
		for k := range props {
			required = append(required, k)
		}
		sort.Strings(required)
		return map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		}
	}

	return object(map[string]any{
		"about": object(map[string]any{
			"title": str, "author": str, "thesis": str, "audience": str,
		}),
		"key_ideas": strList,
		"practices": map[string]any{
			"type":  "array",
			"items": object(map[string]any{"name": str, "steps": strList}),
		},
		"cases": strList,
		"quotes": map[string]any{
			"type":  "array",
			"items": object(map[string]any{"text": str, "note": str}),
		},
		"reflection": strList,
	})
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
