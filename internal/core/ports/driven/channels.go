package driven

import "github.com/MaxSetka1/max-autopost-bot/internal/core/domain"

// ChannelProvider exposes the configured channels with their slots.
type ChannelProvider interface {
	// Channels returns every configured channel, enabled or not.
	Channels() []domain.Channel

	// Channel resolves a channel by name or alias.
	Channel(key string) (domain.Channel, bool)
}
