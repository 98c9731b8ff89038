package driving

import (
	"context"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// Scheduler publishes approved drafts at their slot times.
type Scheduler interface {
	// Start runs the loop until ctx ends or Stop is called.
	Start(ctx context.Context) error

	// Stop ends the loop.
	Stop() error

	// Reload rebuilds the trigger calendar from channels.
	Reload(channels []domain.Channel)

	// Entries returns the current calendar.
	Entries() []domain.ScheduleEntry
}
