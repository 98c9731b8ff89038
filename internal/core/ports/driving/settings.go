package driving

import "github.com/MaxSetka1/max-autopost-bot/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Set stores one setting by dotted key (e.g. "openai.chat_model").
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
