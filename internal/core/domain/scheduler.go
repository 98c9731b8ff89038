package domain

import "time"

// Job kinds recorded in the run history.
const (
	JobKindPublish = "publish"
	JobKindControl = "control"
)

// JobRun records one trigger firing or control request execution.
type JobRun struct {
	// ID is the unique identifier for the run.
	ID string

	// Kind is JobKindPublish or JobKindControl.
	Kind string

	// Key identifies what ran (schedule entry key or control dedupe key).
	Key string

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run completed.
	EndedAt time.Time

	// Success indicates whether the run completed without error.
	Success bool

	// Note is a human-readable outcome, e.g. "created 6 drafts" or a skip reason.
	Note string

	// Error contains the error message if Success is false.
	Error string

	// Items is a count of items handled.
	Items int
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	// TickInterval is how often the trigger calendar is checked.
	TickInterval time.Duration

	// ControlPollInterval is how often the control queue is polled.
	ControlPollInterval time.Duration

	// HistoryLimit is how many job runs are kept per kind.
	HistoryLimit int
}

// DefaultSchedulerConfig returns sensible defaults for the scheduler.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		TickInterval:        time.Second,
		ControlPollInterval: 30 * time.Second,
		HistoryLimit:        500,
	}
}
