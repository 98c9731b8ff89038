package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// OAuth2 scopes used by the connectors.
const (
	ScopeSheets        = "https://www.googleapis.com/auth/spreadsheets"
	ScopeDriveReadonly = "https://www.googleapis.com/auth/drive.readonly"
)

// ErrNoCredentials indicates no service account credentials were configured.
var ErrNoCredentials = errors.New("google: no service account credentials configured")

// LoadCredentials returns service account JSON from either an inline JSON
// value or a path to a JSON file.
func LoadCredentials(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrNoCredentials
	}
	if strings.HasPrefix(value, "{") {
		return []byte(value), nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	return data, nil
}

// NewServiceAccountTokenSource creates an oauth2.TokenSource from service
// account credentials. The returned TokenSource can be used with
// option.WithTokenSource() when creating Google API services.
func NewServiceAccountTokenSource(ctx context.Context, credentials string, scopes ...string) (oauth2.TokenSource, error) {
	data, err := LoadCredentials(credentials)
	if err != nil {
		return nil, err
	}

	cfg, err := googleoauth.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	return oauth2.ReuseTokenSource(nil, cfg.TokenSource(ctx)), nil
}
