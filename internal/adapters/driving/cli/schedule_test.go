package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

func TestScheduleCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.scheduler.entries = []domain.ScheduleEntry{
		{Channel: "books", Alias: "@books", Format: "announce", LocalTime: "09:00", Timezone: "Europe/Moscow", UTCTime: "06:00"},
	}

	out, err := execute(t, "schedule")

	require.NoError(t, err)
	assert.Equal(t, 1, ts.scheduler.reloads)
	assert.Contains(t, out, "TIMEZONE")
	assert.Contains(t, out, "Europe/Moscow")
	assert.Contains(t, out, "06:00")
}

func TestScheduleCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "schedule")

	require.NoError(t, err)
	assert.Contains(t, out, "No scheduled slots.")
}

func TestRunCmd_StopsCleanly(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "run")

	require.NoError(t, err)
	assert.True(t, ts.scheduler.started)
	assert.True(t, ts.scheduler.stopped)
	assert.Equal(t, 1, ts.scheduler.reloads)
	assert.Contains(t, out, "Worker stopped.")
}

func TestRunCmd_StartError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.scheduler.startErr = errors.New("already running")

	_, err := execute(t, "run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker failed: already running")
	assert.True(t, ts.scheduler.stopped)
}
