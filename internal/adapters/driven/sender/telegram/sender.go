// Package telegram delivers posts through a Telegram-compatible Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// Ensure Sender implements the interface.
var _ driven.Sender = (*Sender)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.telegram.org"
	DefaultTimeout = 20 * time.Second

	// FallbackEnv names the environment variable holding the fallback API base.
	FallbackEnv = "BOT_API_BASE"
)

// Endpoint names reported in SendResult.
const (
	EndpointPrimary  = "telegram"
	EndpointFallback = "custom"
)

// maxBodySnippet bounds how much of an error response ends up in errors.
const maxBodySnippet = 200

// Config holds sender configuration.
type Config struct {
	// BaseURL is the primary Bot API base (default: https://api.telegram.org).
	BaseURL string

	// FallbackURL is tried when the primary endpoint fails. Empty disables it.
	FallbackURL string

	// Timeout is the per-request timeout (default: 20s).
	Timeout time.Duration

	// Getenv resolves token environment variables (default: os.Getenv).
	Getenv func(string) string
}

// Sender posts text messages to channels.
type Sender struct {
	client      *http.Client
	baseURL     string
	fallbackURL string
	getenv      func(string) string
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// New creates a sender.
func New(cfg Config) *Sender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}
	return &Sender{
		client:      &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		fallbackURL: strings.TrimRight(cfg.FallbackURL, "/"),
		getenv:      cfg.Getenv,
	}
}

// Send posts text to alias with the bot token read from tokenEnv. An
// unset token makes the call a dry run.
func (s *Sender) Send(ctx context.Context, alias, tokenEnv, text string) (driven.SendResult, error) {
	token := strings.TrimSpace(s.getenv(tokenEnv))
	if token == "" {
		return driven.SendResult{DryRun: true}, nil
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: alias, Text: text})
	if err != nil {
		return driven.SendResult{}, fmt.Errorf("encoding message: %w", err)
	}

	primary := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, token)
	perr := s.post(ctx, primary, payload)
	if perr == nil {
		return driven.SendResult{Delivered: true, Endpoint: EndpointPrimary}, nil
	}
	logger.Debug("sender: primary endpoint failed for %s: %v", alias, perr)

	if s.fallbackURL == "" {
		return driven.SendResult{}, fmt.Errorf("sending to %s: %w", alias, perr)
	}
	if ferr := s.post(ctx, s.fallbackURL+"/sendMessage", payload); ferr != nil {
		return driven.SendResult{}, fmt.Errorf("sending to %s: %w (fallback: %v)", alias, perr, ferr)
	}
	return driven.SendResult{Delivered: true, Endpoint: EndpointFallback}, nil
}

func (s *Sender) post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %s", redact(err.Error()))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// redact hides bot tokens that net/http echoes back in URL errors.
func redact(msg string) string {
	i := strings.Index(msg, "/bot")
	if i < 0 {
		return msg
	}
	j := strings.Index(msg[i:], "/sendMessage")
	if j < 0 {
		return msg
	}
	return msg[:i] + "/bot***" + msg[i+j:]
}
