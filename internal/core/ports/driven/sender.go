package driven

import "context"

// SendResult describes a delivery attempt.
type SendResult struct {
	// Delivered is true when the message was accepted upstream.
	Delivered bool

	// DryRun is true when no token was configured and nothing was sent.
	DryRun bool

	// Endpoint names the endpoint that accepted the message.
	Endpoint string
}

// Sender delivers a finished post to a channel.
type Sender interface {
	// Send posts text to the channel alias using the token found in tokenEnv.
	Send(ctx context.Context, alias, tokenEnv, text string) (SendResult, error)
}
