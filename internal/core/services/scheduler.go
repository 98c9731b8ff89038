package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// utcLayout formats trigger times.
const utcLayout = "15:04:05"

// dryPreviewLen bounds the text echoed by a dry run.
const dryPreviewLen = 120

// DraftSyncer pulls review decisions for one draft key before publishing.
type DraftSyncer interface {
	SyncMatching(ctx context.Context, channel, date, format string) (int, error)
}

// Scheduler publishes approved drafts at their slot times and polls the
// control queue. Triggers run sequentially on one loop.
type Scheduler struct {
	config domain.SchedulerConfig
	drafts driven.DraftStore
	sender driven.Sender

	syncer  DraftSyncer
	control driving.ControlService
	jobs    driven.JobStore
	now     func() time.Time

	mu      sync.Mutex
	entries []domain.ScheduleEntry
	fired   map[string]string // entry key -> local date of the last firing
	running bool
	stopCh  chan struct{}
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(config domain.SchedulerConfig, drafts driven.DraftStore, sender driven.Sender) *Scheduler {
	defaults := domain.DefaultSchedulerConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if config.ControlPollInterval <= 0 {
		config.ControlPollInterval = defaults.ControlPollInterval
	}
	return &Scheduler{
		config: config,
		drafts: drafts,
		sender: sender,
		now:    time.Now,
		fired:  make(map[string]string),
	}
}

// SetSyncer sets the review sync run before each firing.
func (s *Scheduler) SetSyncer(syncer DraftSyncer) {
	s.syncer = syncer
}

// SetControl sets the control queue polled by the loop.
func (s *Scheduler) SetControl(control driving.ControlService) {
	s.control = control
}

// SetJobStore sets where firings are recorded.
func (s *Scheduler) SetJobStore(jobs driven.JobStore) {
	s.jobs = jobs
}

// WithClock sets the clock. Used by tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// ToUTC converts a local slot time in tz to a UTC HH:MM:SS on the UTC
// calendar day of day.
func ToUTC(localTime, tz string, day time.Time) (string, error) {
	clock, err := domain.ParseClock(localTime)
	if err != nil {
		return "", err
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("timezone %q: %w", tz, domain.ErrInvalidInput)
	}
	d := day.UTC()
	return clock.On(d.Year(), d.Month(), d.Day(), loc).UTC().Format(utcLayout), nil
}

// BuildCalendar resolves every slot of every enabled channel to a UTC
// trigger on now's date. Slots with a bad time or zone are skipped.
func BuildCalendar(channels []domain.Channel, now time.Time) []domain.ScheduleEntry {
	var entries []domain.ScheduleEntry
	for _, ch := range channels {
		if !ch.Enabled {
			continue
		}
		tz := ch.Timezone
		if tz == "" {
			tz = domain.DefaultTimezone
		}
		for _, slot := range ch.Slots {
			utc, err := ToUTC(slot.Time, tz, now)
			if err != nil {
				logger.Warn("schedule %s %s: %v", ch.DisplayName(), slot.Time, err)
				continue
			}
			entries = append(entries, domain.ScheduleEntry{
				Channel:   ch.DisplayName(),
				Alias:     ch.Alias,
				TokenEnv:  ch.TokenEnv,
				Format:    slot.Format,
				LocalTime: slot.Time,
				Timezone:  tz,
				UTCTime:   utc,
			})
		}
	}
	return entries
}

// Reload rebuilds the calendar. Slots whose time already passed today
// are not fired until tomorrow.
func (s *Scheduler) Reload(channels []domain.Channel) {
	now := s.now()
	entries := BuildCalendar(channels, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	for _, e := range entries {
		fire, date, err := fireTime(e, now)
		if err != nil {
			continue
		}
		if !now.Before(fire) && s.fired[e.Key()] != date {
			s.fired[e.Key()] = date
		}
		logger.Event(logger.TagSchedule, "%s %s local / %s UTC (%s) [%s]",
			e.Alias, e.LocalTime, e.UTCTime, e.Format, e.Timezone)
	}
}

// Entries returns the current calendar.
func (s *Scheduler) Entries() []domain.ScheduleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ScheduleEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// fireTime returns today's trigger instant in the entry's zone and the
// local date. Recomputing daily keeps slots on local time across DST.
func fireTime(e domain.ScheduleEntry, now time.Time) (time.Time, string, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.Time{}, "", err
	}
	clock, err := domain.ParseClock(e.LocalTime)
	if err != nil {
		return time.Time{}, "", err
	}
	local := now.In(loc)
	return clock.On(local.Year(), local.Month(), local.Day(), loc), local.Format(dateLayout), nil
}

// Tick fires every due trigger once per local day. Returns the runs.
func (s *Scheduler) Tick(ctx context.Context) []*domain.JobRun {
	now := s.now()

	s.mu.Lock()
	var due []domain.ScheduleEntry
	var dates []string
	for _, e := range s.entries {
		fire, date, err := fireTime(e, now)
		if err != nil || now.Before(fire) || s.fired[e.Key()] == date {
			continue
		}
		s.fired[e.Key()] = date
		due = append(due, e)
		dates = append(dates, date)
	}
	s.mu.Unlock()

	runs := make([]*domain.JobRun, 0, len(due))
	for i, e := range due {
		runs = append(runs, s.Fire(ctx, e, dates[i]))
	}
	return runs
}

// Fire publishes the draft for one trigger on date: sync the review row,
// then send only an approved draft with text.
func (s *Scheduler) Fire(ctx context.Context, e domain.ScheduleEntry, date string) *domain.JobRun {
	run := &domain.JobRun{
		Kind:      domain.JobKindPublish,
		Key:       e.Key() + "|" + date,
		StartedAt: s.now(),
	}
	s.publish(ctx, e, date, run)
	run.EndedAt = s.now()

	if s.jobs != nil {
		if err := s.jobs.RecordRun(ctx, run); err != nil {
			logger.Warn("recording run %s: %v", run.Key, err)
		}
	}
	return run
}

func (s *Scheduler) publish(ctx context.Context, e domain.ScheduleEntry, date string, run *domain.JobRun) {
	skip := func(format string, args ...any) {
		run.Success = true
		run.Note = fmt.Sprintf(format, args...)
		logger.Event(logger.TagSkip, "%s", run.Note)
	}

	if s.syncer != nil {
		if _, err := s.syncer.SyncMatching(ctx, e.Channel, date, e.Format); err != nil {
			logger.Event(logger.TagSheetErr, "sync %s %s: %v", e.Channel, e.Format, err)
		}
	}

	d, err := s.drafts.Find(ctx, domain.DraftKey{Channel: e.Channel, Date: date, Format: e.Format})
	if errors.Is(err, domain.ErrNotFound) {
		skip("no draft for %s %s %s", e.Channel, e.Format, date)
		return
	}
	if err != nil {
		run.Error = err.Error()
		logger.Warn("finding draft: %v", err)
		return
	}
	if d.Status != domain.DraftApproved {
		skip("draft %d not approved (status=%s)", d.ID, d.Status)
		return
	}
	text := d.EffectiveText()
	if text == "" {
		skip("draft %d empty text", d.ID)
		return
	}

	logger.Event(logger.TagRun, "%s %s %s draft_id=%d fmt=%s",
		s.now().Format("2006-01-02 15:04:05"), e.Timezone, e.Alias, d.ID, e.Format)

	res, err := s.sender.Send(ctx, e.Alias, e.TokenEnv, text)
	if err != nil {
		run.Error = err.Error()
		logger.Event(logger.TagSendErr, "%s draft_id=%d: %v", e.Alias, d.ID, err)
		return
	}
	run.Success = true
	if res.DryRun {
		run.Note = "dry run"
		logger.Event(logger.TagDry, "-> %s: %s...", e.Alias, preview(text, dryPreviewLen))
		return
	}

	run.Items = 1
	run.Note = "sent via " + res.Endpoint
	if err := s.drafts.MarkSent(ctx, d.ID, s.now()); err != nil {
		logger.Warn("marking draft %d sent: %v", d.ID, err)
	}
	logger.Event(logger.TagSent, "%s draft_id=%d via %s", e.Alias, d.ID, res.Endpoint)
}

// Start runs the loop until ctx ends or Stop is called. The control
// queue is polled immediately and then every ControlPollInterval.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if s.jobs != nil && s.config.HistoryLimit > 0 {
		if err := s.jobs.PruneHistory(ctx, s.config.HistoryLimit); err != nil {
			logger.Warn("pruning history: %v", err)
		}
	}

	logger.Event(logger.TagStart, "Worker running. Tick every %s.", s.config.TickInterval)
	s.pollControl(ctx)

	tick := time.NewTicker(s.config.TickInterval)
	defer tick.Stop()
	poll := time.NewTicker(s.config.ControlPollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-tick.C:
			s.Tick(ctx)
		case <-poll.C:
			s.pollControl(ctx)
		}
	}
}

// Stop ends the loop.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	close(s.stopCh)
	return nil
}

func (s *Scheduler) pollControl(ctx context.Context) {
	if s.control == nil {
		return
	}
	n, err := s.control.Poll(ctx)
	if err != nil {
		logger.Event(logger.TagControl, "error: %v", err)
		return
	}
	if n > 0 {
		logger.Event(logger.TagControl, "processed %d request(s)", n)
	}
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
