package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimezone is used when neither the channel nor the schedule names one.
const DefaultTimezone = "Europe/Moscow"

// Slot is one configured publishing time for a channel.
type Slot struct {
	// Time is the local time, HH:MM or HH:MM:SS.
	Time string `yaml:"time"`

	// Format is the post format to publish at this time.
	Format string `yaml:"format"`
}

// Channel is a configured publishing destination.
type Channel struct {
	// Alias is the sender-facing address (chat id or @handle).
	Alias string

	// Name is the human-readable channel name used as the draft key.
	Name string

	// TokenEnv names the environment variable holding the bot token.
	TokenEnv string

	// Timezone is an IANA zone name for the channel's slots.
	Timezone string

	// Enabled indicates whether the channel is scheduled.
	Enabled bool

	// SourceID is the bound source, empty when the catalog should be used.
	SourceID string

	// Slots are the channel's daily publishing slots.
	Slots []Slot
}

// DisplayName returns Name, falling back to Alias.
func (c Channel) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Alias
}

// Matches reports whether key names this channel by name or alias.
func (c Channel) Matches(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && (key == c.Name || key == c.Alias)
}

// ScheduleEntry is a slot resolved to a UTC trigger time.
// It is derived from configuration and never persisted.
type ScheduleEntry struct {
	Channel   string
	Alias     string
	TokenEnv  string
	Format    string
	LocalTime string
	Timezone  string
	UTCTime   string
}

// Key identifies the entry within a calendar.
func (e ScheduleEntry) Key() string {
	return e.Channel + "|" + e.Format + "|" + e.LocalTime
}

// Clock is a parsed time of day.
type Clock struct {
	Hour, Minute, Second int
}

// ParseClock parses HH:MM or HH:MM:SS.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Clock{}, fmt.Errorf("bad time format %q: %w", s, ErrInvalidInput)
	}
	vals := make([]int, 3)
	limits := []int{23, 59, 59}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return Clock{}, fmt.Errorf("bad time format %q: %w", s, ErrInvalidInput)
		}
		vals[i] = n
	}
	return Clock{Hour: vals[0], Minute: vals[1], Second: vals[2]}, nil
}

// String formats the clock as HH:MM:SS.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// On returns the instant at this clock time on the given calendar day in loc.
func (c Clock) On(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, c.Hour, c.Minute, c.Second, 0, loc)
}
