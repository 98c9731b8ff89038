package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Ensure RenderService implements the interfaces.
var (
	_ driving.RenderService   = (*RenderService)(nil)
	_ driven.PromptStoreAware = (*RenderService)(nil)
)

// UnavailablePlaceholder replaces a post whose generation failed.
const UnavailablePlaceholder = "⏳ Генерация временно недоступна."

const (
	renderMaxTokens   = 800
	renderTemperature = 0.7
)

// Header icons and hashtags per format.
var (
	formatIcons = map[string]string{
		domain.FormatAnnounce: "📚",
		domain.FormatInsight:  "💡",
		domain.FormatPractice: "🛠",
		domain.FormatCase:     "📖",
		domain.FormatQuote:    "💬",
		domain.FormatReflect:  "🤔",
	}
	formatTags = map[string]string{
		domain.FormatAnnounce: "#анонс",
		domain.FormatInsight:  "#инсайт",
		domain.FormatPractice: "#практика",
		domain.FormatCase:     "#кейс",
		domain.FormatQuote:    "#цитата",
		domain.FormatReflect:  "#рефлексия",
	}
)

// TitleResolver proposes title and author for a source. Empty fields
// defer to the next resolver in the chain.
type TitleResolver interface {
	Resolve(ctx context.Context, sourceID string, summary *domain.Summary) domain.SourceMeta
}

// SummaryTitles reads title and author from the summary.
type SummaryTitles struct{}

// Resolve implements TitleResolver.
func (SummaryTitles) Resolve(_ context.Context, _ string, summary *domain.Summary) domain.SourceMeta {
	if summary == nil {
		return domain.SourceMeta{}
	}
	return domain.SourceMeta{
		Title:  strings.TrimSpace(summary.About.Title),
		Author: strings.TrimSpace(summary.About.Author),
	}
}

// MetadataTitles looks the source up in a catalog.
type MetadataTitles struct {
	Metadata driven.SourceMetadata
}

// Resolve implements TitleResolver.
func (m MetadataTitles) Resolve(ctx context.Context, sourceID string, _ *domain.Summary) domain.SourceMeta {
	if m.Metadata == nil {
		return domain.SourceMeta{}
	}
	meta, err := m.Metadata.Lookup(ctx, sourceID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Debug("title lookup %s: %v", sourceID, err)
		}
		return domain.SourceMeta{}
	}
	return domain.SourceMeta{Title: strings.TrimSpace(meta.Title), Author: strings.TrimSpace(meta.Author)}
}

// IDTitles derives a title from the source id itself.
type IDTitles struct{}

// Resolve implements TitleResolver.
func (IDTitles) Resolve(_ context.Context, sourceID string, _ *domain.Summary) domain.SourceMeta {
	return domain.SourceMeta{Title: domain.TitleFromName(sourceID)}
}

// ResolveTitles runs the chain; the first non-empty value wins per field.
func ResolveTitles(ctx context.Context, chain []TitleResolver, sourceID string, summary *domain.Summary) domain.SourceMeta {
	var out domain.SourceMeta
	for _, r := range chain {
		if out.Title != "" && out.Author != "" {
			break
		}
		m := r.Resolve(ctx, sourceID, summary)
		if out.Title == "" {
			out.Title = m.Title
		}
		if out.Author == "" {
			out.Author = m.Author
		}
	}
	return out
}

// RenderService writes finished posts from a source summary.
type RenderService struct {
	summaries driving.SummaryService
	generator driven.Generator
	pipeline  driven.PostProcessorPipeline
	titles    []TitleResolver
	prompts   promptLoader
}

// NewRenderService creates a renderer. metadata may be nil.
func NewRenderService(
	summaries driving.SummaryService,
	generator driven.Generator,
	pipeline driven.PostProcessorPipeline,
	metadata driven.SourceMetadata,
) *RenderService {
	return &RenderService{
		summaries: summaries,
		generator: generator,
		pipeline:  pipeline,
		titles:    []TitleResolver{SummaryTitles{}, MetadataTitles{Metadata: metadata}, IDTitles{}},
	}
}

// SetPromptStore sets the prompt store for system and format prompts.
func (s *RenderService) SetPromptStore(store driven.PromptStore) {
	s.prompts.store = store
}

// Render writes one post. A failed generation returns the placeholder
// with OutcomeDegraded and no error.
func (s *RenderService) Render(ctx context.Context, sourceID, format, channel string) (domain.Rendered, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !domain.IsFormat(format) {
		return domain.Rendered{}, fmt.Errorf("unknown format %q: %w", format, domain.ErrInvalidInput)
	}

	summary, err := s.summaries.EnsureSummary(ctx, sourceID)
	if err != nil {
		return domain.Rendered{}, fmt.Errorf("summary for %s: %w", sourceID, err)
	}
	meta := ResolveTitles(ctx, s.titles, sourceID, summary)

	placeholder := domain.Rendered{
		Text:    UnavailablePlaceholder,
		Title:   meta.Title,
		Author:  meta.Author,
		Outcome: domain.OutcomeDegraded,
	}
	if s.generator == nil {
		return placeholder, nil
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return domain.Rendered{}, fmt.Errorf("encoding summary: %w", err)
	}
	user := fmt.Sprintf("%s\n\nКнига: %s\nАвтор: %s\nНе повторяй название книги в тексте.\n\nКонспект (JSON):\n%s",
		s.prompts.load(driven.PromptFormatPrefix+format), meta.Title, orDash(meta.Author), summaryJSON)

	res, err := s.generator.Generate(ctx, driven.GenerateRequest{
		System:      s.prompts.load(driven.PromptRenderSystem),
		User:        user,
		MaxTokens:   renderMaxTokens,
		Temperature: renderTemperature,
	})
	if err != nil || !res.Outcome.IsOK() {
		logger.Warn("render %s/%s: generation %s: %v", sourceID, format, res.Outcome, err)
		return placeholder, nil
	}

	body := strings.TrimSpace(res.Text)
	if s.pipeline != nil {
		body = strings.TrimSpace(s.pipeline.Process(body))
	}
	if body == "" {
		return placeholder, nil
	}

	return domain.Rendered{
		Text:    Compose(format, meta, body, channel),
		Title:   meta.Title,
		Author:  meta.Author,
		Outcome: domain.OutcomeOK,
	}, nil
}

// Compose assembles header, body and hashtag line.
func Compose(format string, meta domain.SourceMeta, body, channel string) string {
	header := formatIcons[format]
	if meta.Title != "" {
		header += " " + meta.Title
	}
	if format == domain.FormatAnnounce && meta.Author != "" {
		header += " — " + meta.Author
	}

	tags := formatTags[format]
	if t := ChannelTag(channel); t != "" {
		tags += " " + t
	}
	return strings.TrimSpace(header) + "\n\n" + body + "\n\n" + tags
}

// ChannelTag turns a channel name into a hashtag, keeping letters, digits
// and underscores. Returns "" when nothing is left.
func ChannelTag(channel string) string {
	var b strings.Builder
	for _, r := range strings.TrimPrefix(strings.TrimSpace(channel), "@") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
