package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// recordingSyncer records SyncMatching calls.
type recordingSyncer struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingSyncer) SyncMatching(_ context.Context, channel, date, format string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, channel+"|"+date+"|"+format)
	return 0, nil
}

// countingControl counts polls.
type countingControl struct {
	polls atomic.Int32
}

func (c *countingControl) Poll(_ context.Context) (int, error) {
	c.polls.Add(1)
	return 0, nil
}

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func announceEntry() domain.ScheduleEntry {
	return domain.ScheduleEntry{
		Channel:   "books",
		Alias:     "C1",
		TokenEnv:  "C1_TOKEN",
		Format:    domain.FormatAnnounce,
		LocalTime: "09:00",
		Timezone:  "Europe/Moscow",
		UTCTime:   "06:00:00",
	}
}

func TestToUTC(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	got, err := ToUTC("09:00", "Etc/GMT-3", day)
	require.NoError(t, err)
	assert.Equal(t, "06:00:00", got)

	got, err = ToUTC("09:00", "Europe/Moscow", day)
	require.NoError(t, err)
	assert.Equal(t, "06:00:00", got)

	got, err = ToUTC("00:30", "Europe/Moscow", day)
	require.NoError(t, err)
	assert.Equal(t, "21:30:00", got)
}

func TestToUTC_FollowsDaylightSaving(t *testing.T) {
	got, err := ToUTC("09:00", "Europe/Berlin", time.Date(2024, 3, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", got)

	got, err = ToUTC("09:00", "Europe/Berlin", time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "07:00:00", got)
}

func TestToUTC_Errors(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := ToUTC("9am", "Europe/Moscow", day)
	assert.Error(t, err)

	_, err = ToUTC("09:00", "Mars/Olympus", day)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildCalendar(t *testing.T) {
	disabled := booksChannel("")
	disabled.Name, disabled.Enabled = "off", false
	noZone := booksChannel("")
	noZone.Name, noZone.Alias, noZone.Timezone = "quotes", "C3", ""
	noZone.Slots = []domain.Slot{{Time: "10:00", Format: domain.FormatQuote}, {Time: "bad", Format: domain.FormatCase}}

	entries := BuildCalendar([]domain.Channel{booksChannel(""), disabled, noZone},
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	require.Len(t, entries, 4)
	assert.Equal(t, "books", entries[0].Channel)
	assert.Equal(t, "C1_TOKEN", entries[0].TokenEnv)
	assert.Equal(t, "06:00:00", entries[0].UTCTime)
	assert.Equal(t, "books|announce|09:00", entries[0].Key())

	last := entries[3]
	assert.Equal(t, "quotes", last.Channel)
	assert.Equal(t, domain.DefaultTimezone, last.Timezone)
	assert.Equal(t, "07:00:00", last.UTCTime)
}

func TestScheduler_Fire_ApprovalGate(t *testing.T) {
	ctx := context.Background()
	drafts := newDraftStore(t)
	d := seedDraft(t, drafts, domain.FormatAnnounce)
	sender := &mockSender{result: driven.SendResult{Delivered: true, Endpoint: "telegram"}}
	sched := NewScheduler(domain.DefaultSchedulerConfig(), drafts, sender)

	run := sched.Fire(ctx, announceEntry(), "2024-01-10")
	assert.True(t, run.Success)
	assert.Contains(t, run.Note, "not approved (status=new)")
	assert.Zero(t, sender.count())

	require.NoError(t, NewDraftService(drafts).Approve(ctx, d.ID, "ann"))
	run = sched.Fire(ctx, announceEntry(), "2024-01-10")
	assert.True(t, run.Success)
	assert.Equal(t, 1, run.Items)
	assert.Equal(t, "sent via telegram", run.Note)
	assert.Equal(t, []string{"C1: generated announce"}, sender.sent)

	got, err := drafts.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftSent, got.Status)
	assert.False(t, got.SentAt.IsZero())

	run = sched.Fire(ctx, announceEntry(), "2024-01-10")
	assert.Contains(t, run.Note, "not approved (status=sent)")
	assert.Equal(t, 1, sender.count())
}

func TestScheduler_Fire_RejectedIsNotSent(t *testing.T) {
	ctx := context.Background()
	drafts := newDraftStore(t)
	d := seedDraft(t, drafts, domain.FormatAnnounce)
	require.NoError(t, NewDraftService(drafts).Reject(ctx, d.ID))
	sender := &mockSender{}

	run := NewScheduler(domain.DefaultSchedulerConfig(), drafts, sender).Fire(ctx, announceEntry(), "2024-01-10")
	assert.Contains(t, run.Note, "status=rejected")
	assert.Zero(t, sender.count())
}

func TestScheduler_Fire_PrefersEditedText(t *testing.T) {
	ctx := context.Background()
	drafts := newDraftStore(t)
	d := seedDraft(t, drafts, domain.FormatAnnounce)
	svc := NewDraftService(drafts)
	require.NoError(t, svc.Edit(ctx, d.ID, "edited post"))
	require.NoError(t, svc.Approve(ctx, d.ID, "ann"))
	sender := &mockSender{result: driven.SendResult{Delivered: true, Endpoint: "telegram"}}

	NewScheduler(domain.DefaultSchedulerConfig(), drafts, sender).Fire(ctx, announceEntry(), "2024-01-10")
	assert.Equal(t, []string{"C1: edited post"}, sender.sent)
}

func TestScheduler_Fire_DryRunKeepsDraftApproved(t *testing.T) {
	ctx := context.Background()
	drafts := newDraftStore(t)
	d := seedDraft(t, drafts, domain.FormatAnnounce)
	require.NoError(t, NewDraftService(drafts).Approve(ctx, d.ID, "ann"))
	sender := &mockSender{result: driven.SendResult{DryRun: true}}

	run := NewScheduler(domain.DefaultSchedulerConfig(), drafts, sender).Fire(ctx, announceEntry(), "2024-01-10")
	assert.True(t, run.Success)
	assert.Equal(t, "dry run", run.Note)
	assert.Zero(t, run.Items)

	got, _ := drafts.Get(ctx, d.ID)
	assert.Equal(t, domain.DraftApproved, got.Status)
}

func TestScheduler_Fire_SendError(t *testing.T) {
	ctx := context.Background()
	drafts := newDraftStore(t)
	d := seedDraft(t, drafts, domain.FormatAnnounce)
	require.NoError(t, NewDraftService(drafts).Approve(ctx, d.ID, "ann"))
	jobs := &mockJobStore{}
	sched := NewScheduler(domain.DefaultSchedulerConfig(), drafts, &mockSender{err: errBoom})
	sched.SetJobStore(jobs)

	run := sched.Fire(ctx, announceEntry(), "2024-01-10")
	assert.False(t, run.Success)
	assert.Equal(t, "boom", run.Error)

	got, _ := drafts.Get(ctx, d.ID)
	assert.Equal(t, domain.DraftApproved, got.Status)
	require.Len(t, jobs.runs, 1)
	assert.Equal(t, "books|announce|09:00|2024-01-10", jobs.runs[0].Key)
}

func TestScheduler_Fire_NoDraftAndSyncFirst(t *testing.T) {
	syncer := &recordingSyncer{}
	sched := NewScheduler(domain.DefaultSchedulerConfig(), newDraftStore(t), &mockSender{})
	sched.SetSyncer(syncer)

	run := sched.Fire(context.Background(), announceEntry(), "2024-01-10")
	assert.True(t, run.Success)
	assert.Equal(t, "no draft for books announce 2024-01-10", run.Note)
	assert.Equal(t, []string{"books|2024-01-10|announce"}, syncer.calls)
}

func TestScheduler_Tick_OncePerLocalDay(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Date(2024, 1, 10, 5, 0, 0, 0, time.UTC)}
	sched := NewScheduler(domain.DefaultSchedulerConfig(), newDraftStore(t), &mockSender{}).WithClock(clock.Now)
	ch := booksChannel("")
	ch.Slots = ch.Slots[:1]
	sched.Reload([]domain.Channel{ch})

	assert.Empty(t, sched.Tick(ctx), "08:00 Moscow is before the slot")

	clock.Set(time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC))
	runs := sched.Tick(ctx)
	require.Len(t, runs, 1)
	assert.True(t, strings.HasSuffix(runs[0].Key, "|2024-01-10"))

	clock.Set(time.Date(2024, 1, 10, 6, 30, 0, 0, time.UTC))
	assert.Empty(t, sched.Tick(ctx))

	clock.Set(time.Date(2024, 1, 11, 6, 0, 1, 0, time.UTC))
	runs = sched.Tick(ctx)
	require.Len(t, runs, 1)
	assert.True(t, strings.HasSuffix(runs[0].Key, "|2024-01-11"))
}

func TestScheduler_Reload_DoesNotCatchUpPassedSlots(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Date(2024, 1, 10, 10, 30, 0, 0, time.UTC)}
	sched := NewScheduler(domain.DefaultSchedulerConfig(), newDraftStore(t), &mockSender{}).WithClock(clock.Now)
	sched.Reload([]domain.Channel{booksChannel("")})

	assert.Len(t, sched.Entries(), 3)
	assert.Empty(t, sched.Tick(ctx))

	clock.Set(time.Date(2024, 1, 10, 16, 0, 0, 0, time.UTC))
	runs := sched.Tick(ctx)
	require.Len(t, runs, 1)
	assert.Equal(t, "books|quote|19:00|2024-01-10", runs[0].Key)
}

func TestScheduler_StartPollsControlAndStops(t *testing.T) {
	control := &countingControl{}
	config := domain.SchedulerConfig{TickInterval: 10 * time.Millisecond, ControlPollInterval: 10 * time.Millisecond}
	sched := NewScheduler(config, newDraftStore(t), &mockSender{})
	sched.SetControl(control)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- sched.Start(ctx) }()

	require.Eventually(t, func() bool { return control.polls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, sched.Stop())

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
