package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Ensure ControlProcessor implements the interface.
var _ driving.ControlService = (*ControlProcessor)(nil)

// ControlProcessor executes requests from the review surface's control table.
type ControlProcessor struct {
	queue    driven.ControlQueue
	planner  driving.PlannerService
	channels driven.ChannelProvider

	discoverer driven.SourceDiscoverer
	catalog    driven.SourceCatalog
	ingest     driving.IngestService
	jobs       driven.JobStore
	now        func() time.Time

	mu   sync.Mutex
	seen map[string]bool
}

// NewControlProcessor creates a control processor.
func NewControlProcessor(
	queue driven.ControlQueue,
	planner driving.PlannerService,
	channels driven.ChannelProvider,
) *ControlProcessor {
	return &ControlProcessor{
		queue:    queue,
		planner:  planner,
		channels: channels,
		now:      time.Now,
		seen:     make(map[string]bool),
	}
}

// SetDiscovery enables the sync action. Discovered files are appended to
// catalog when it is set.
func (c *ControlProcessor) SetDiscovery(discoverer driven.SourceDiscoverer, catalog driven.SourceCatalog) {
	c.discoverer = discoverer
	c.catalog = catalog
}

// SetIngestService enables the ingest action.
func (c *ControlProcessor) SetIngestService(ingest driving.IngestService) {
	c.ingest = ingest
}

// SetJobStore makes processed requests survive restarts.
func (c *ControlProcessor) SetJobStore(jobs driven.JobStore) {
	c.jobs = jobs
}

// Poll processes pending requests once and returns how many were handled.
func (c *ControlProcessor) Poll(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests, err := c.queue.PullRequests(ctx)
	if err != nil {
		return 0, fmt.Errorf("pulling control requests: %w", err)
	}

	processed := 0
	for _, req := range requests {
		key := req.DedupeKey()
		if c.processed(ctx, key) {
			continue
		}

		run := &domain.JobRun{Kind: domain.JobKindControl, Key: key, StartedAt: c.now()}
		status, note, items := c.execute(ctx, req)
		run.EndedAt = c.now()
		run.Success = status == domain.ControlStatusDone
		run.Note = note
		run.Items = items
		if !run.Success {
			run.Error = note
		}

		if err := c.queue.UpdateStatus(ctx, req.Row, status, note); err != nil {
			logger.Event(logger.TagControl, "row %d: writing status: %v", req.Row, err)
		}
		logger.Event(logger.TagControl, "row %d %s: %s %s", req.Row, req.NormalizedAction(), status, note)

		c.seen[key] = true
		if c.jobs != nil {
			if err := c.jobs.RecordRun(ctx, run); err != nil {
				logger.Warn("recording control run: %v", err)
			}
		}
		processed++
	}
	return processed, nil
}

func (c *ControlProcessor) processed(ctx context.Context, key string) bool {
	if c.seen[key] {
		return true
	}
	if c.jobs == nil {
		return false
	}
	done, err := c.jobs.HasRun(ctx, domain.JobKindControl, key)
	if err != nil {
		logger.Warn("checking control history: %v", err)
		return false
	}
	if done {
		c.seen[key] = true
	}
	return done
}

// execute runs one request and returns status, note and item count.
func (c *ControlProcessor) execute(ctx context.Context, req domain.ControlRequest) (string, string, int) {
	action := req.NormalizedAction()
	channel := strings.TrimSpace(req.Channel)
	if channel == "" {
		channel = strings.TrimSpace(req.Alias)
	}
	date := strings.TrimSpace(req.Date)

	switch action {
	case domain.ActionGenerate, domain.ActionGenerateDay:
		if channel == "" || date == "" {
			return domain.ControlStatusError, "need channel + date", 0
		}
		n, err := c.planner.GenerateDay(ctx, c.resolveChannel(req), date)
		if err != nil {
			return domain.ControlStatusError, err.Error(), 0
		}
		return domain.ControlStatusDone, fmt.Sprintf("created %d drafts", n), n

	case domain.ActionSync:
		if c.discoverer == nil {
			return domain.ControlStatusDone, "sync no-op (importer not installed)", 0
		}
		entries, err := c.discoverer.Discover(ctx)
		if err != nil {
			return domain.ControlStatusError, fmt.Sprintf("sync failed: %v", err), 0
		}
		if c.catalog != nil {
			if err := c.catalog.Append(ctx, entries); err != nil {
				return domain.ControlStatusError, fmt.Sprintf("sync failed: %v", err), 0
			}
		}
		return domain.ControlStatusDone, fmt.Sprintf("discovered %d files", len(entries)), len(entries)

	case domain.ActionIngest:
		if c.ingest == nil {
			return domain.ControlStatusError, "ingest not configured", 0
		}
		ch, ok := c.channels.Channel(c.resolveChannel(req))
		if !ok {
			return domain.ControlStatusError, fmt.Sprintf("unknown channel: %s", channel), 0
		}
		if ch.SourceID == "" {
			return domain.ControlStatusError, fmt.Sprintf("no source bound to %s", ch.DisplayName()), 0
		}
		n, err := c.ingest.IngestSource(ctx, ch.SourceID)
		if err != nil {
			return domain.ControlStatusError, err.Error(), 0
		}
		return domain.ControlStatusDone, fmt.Sprintf("ingested %d chunks", n), n

	default:
		return domain.ControlStatusError, fmt.Sprintf("unknown action: %s", action), 0
	}
}

// resolveChannel prefers the channel column and falls back to the alias
// when the name is not configured.
func (c *ControlProcessor) resolveChannel(req domain.ControlRequest) string {
	name := strings.TrimSpace(req.Channel)
	alias := strings.TrimSpace(req.Alias)
	if name != "" {
		if _, ok := c.channels.Channel(name); ok || alias == "" {
			return name
		}
	}
	return alias
}
