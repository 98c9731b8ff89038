package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Ensure PlannerService implements the interface.
var _ driving.PlannerService = (*PlannerService)(nil)

// dateLayout is the draft publish date format.
const dateLayout = "2006-01-02"

// PlannerService renders a channel's slots for one day into drafts.
type PlannerService struct {
	channels driven.ChannelProvider
	renderer driving.RenderService
	drafts   driven.DraftStore

	sheet   driven.DraftSheet
	catalog driven.SourceCatalog
	ingest  driving.IngestService

	// PreserveReview keeps status, edits and approval of existing drafts
	// when their text is regenerated.
	PreserveReview bool
}

// NewPlannerService creates a planner.
func NewPlannerService(
	channels driven.ChannelProvider,
	renderer driving.RenderService,
	drafts driven.DraftStore,
) *PlannerService {
	return &PlannerService{channels: channels, renderer: renderer, drafts: drafts}
}

// SetDraftSheet sets the review surface drafts are pushed to.
func (p *PlannerService) SetDraftSheet(sheet driven.DraftSheet) {
	p.sheet = sheet
}

// SetCatalog enables auto-pick for channels without a bound source.
func (p *PlannerService) SetCatalog(catalog driven.SourceCatalog) {
	p.catalog = catalog
}

// SetIngestService lets the planner ingest sources before rendering.
func (p *PlannerService) SetIngestService(ingest driving.IngestService) {
	p.ingest = ingest
}

// GenerateDay renders every slot of the channel for date, upserts the
// drafts and pushes them to the review surface in one batch.
func (p *PlannerService) GenerateDay(ctx context.Context, channel, date string) (int, error) {
	ch, ok := p.channels.Channel(channel)
	if !ok {
		return 0, fmt.Errorf("%q: %w", channel, domain.ErrUnknownChannel)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return 0, fmt.Errorf("bad date %q: %w", date, domain.ErrInvalidInput)
	}
	if len(ch.Slots) == 0 {
		logger.Event(logger.TagDrafts, "no slots for %s", ch.DisplayName())
		return 0, fmt.Errorf("%s: %w", ch.DisplayName(), domain.ErrNoSlots)
	}

	if ch.SourceID != "" {
		p.ensureIngested(ctx, ch.SourceID)
		drafts, _ := p.renderSlots(ctx, ch, ch.SourceID, date)
		if err := p.push(ctx, drafts); err != nil {
			logger.Event(logger.TagSheetErr, "%v", err)
		}
		return len(drafts), nil
	}

	return p.generateFromCatalog(ctx, ch, date)
}

func (p *PlannerService) generateFromCatalog(ctx context.Context, ch domain.Channel, date string) (int, error) {
	if p.catalog == nil {
		logger.Event(logger.TagDrafts, "no source for %s", ch.DisplayName())
		return 0, fmt.Errorf("%s: %w", ch.DisplayName(), domain.ErrNoSource)
	}

	lease, err := AcquireLease(ctx, p.catalog)
	if err != nil {
		return 0, err
	}
	sourceID := lease.Entry().ID
	logger.Event(logger.TagDrafts, "%s: picked %s from catalog", ch.DisplayName(), sourceID)

	rollback := func(cause error) (int, error) {
		if rbErr := lease.Rollback(ctx, cause.Error()); rbErr != nil {
			logger.Warn("%v", rbErr)
		}
		return 0, cause
	}

	if p.ingest != nil {
		if _, err := p.ingest.EnsureIngested(ctx, sourceID); err != nil {
			return rollback(fmt.Errorf("ingesting %s: %w", sourceID, err))
		}
	}

	drafts, rendered := p.renderSlots(ctx, ch, sourceID, date)
	if len(drafts) == 0 {
		return rollback(fmt.Errorf("no drafts written for %s", sourceID))
	}
	if rendered == 0 {
		return rollback(fmt.Errorf("no slot rendered for %s", sourceID))
	}
	if err := p.push(ctx, drafts); err != nil {
		return rollback(err)
	}
	if err := lease.Commit(ctx); err != nil {
		logger.Warn("%v", err)
	}
	return len(drafts), nil
}

// renderSlots renders and upserts one draft per slot. A slot that fails
// to render stores an error placeholder instead. The second result counts
// the stored drafts whose text rendered with OutcomeOK.
func (p *PlannerService) renderSlots(ctx context.Context, ch domain.Channel, sourceID, date string) ([]domain.Draft, int) {
	name := ch.DisplayName()
	drafts := make([]domain.Draft, 0, len(ch.Slots))
	rendered := 0

	for _, slot := range ch.Slots {
		post, err := p.renderer.Render(ctx, sourceID, slot.Format, name)
		text := post.Text
		ok := err == nil && post.Outcome.IsOK()
		if err != nil {
			logger.Warn("render %s %s %s: %v", name, slot.Format, date, err)
			text = fmt.Sprintf("⚠️ Ошибка генерации: %v", err)
		}

		d := domain.Draft{
			Channel:     name,
			Format:      slot.Format,
			SourceID:    sourceID,
			Text:        text,
			Status:      domain.DraftNew,
			PublishDate: date,
			PublishTime: slot.Time,
		}
		if p.PreserveReview {
			p.carryReview(ctx, &d)
		}

		id, err := p.drafts.Upsert(ctx, &d)
		if err != nil {
			logger.Warn("saving draft %s %s %s: %v", name, slot.Format, date, err)
			continue
		}
		d.ID = id
		drafts = append(drafts, d)
		if ok {
			rendered++
		}
		logger.Event(logger.TagDrafts, "upsert %s %s %s %s -> id=%d", name, slot.Format, date, slot.Time, id)
	}
	return drafts, rendered
}

func (p *PlannerService) carryReview(ctx context.Context, d *domain.Draft) {
	prev, err := p.drafts.Find(ctx, d.Key())
	if err != nil {
		return
	}
	d.Status = prev.Status
	d.EditedText = prev.EditedText
	d.ApprovedBy = prev.ApprovedBy
	d.ApprovedAt = prev.ApprovedAt
}

func (p *PlannerService) ensureIngested(ctx context.Context, sourceID string) {
	if p.ingest == nil {
		return
	}
	if _, err := p.ingest.EnsureIngested(ctx, sourceID); err != nil {
		logger.Warn("ingesting %s: %v", sourceID, err)
	}
}

func (p *PlannerService) push(ctx context.Context, drafts []domain.Draft) error {
	if p.sheet == nil || len(drafts) == 0 {
		return nil
	}
	if err := p.sheet.Push(ctx, drafts); err != nil {
		return fmt.Errorf("pushing %d drafts: %w", len(drafts), err)
	}
	logger.Event(logger.TagSheets, "pushed %d rows", len(drafts))
	return nil
}
