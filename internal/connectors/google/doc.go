// Package google provides shared infrastructure for the Google API connectors.
//
// The sheets and drive connectors use this package for:
//   - service account credentials (inline JSON or a file path)
//   - service factories for Sheets and Drive clients
//   - error classification for common Google API errors (401, 403, 404, 429)
//   - rate limiting to respect Google API quotas
//
// # Usage
//
//	ts, err := google.NewServiceAccountTokenSource(ctx, creds, google.ScopeSheets, google.ScopeDriveReadonly)
//	svc, err := google.NewSheetsService(ctx, option.WithTokenSource(ts))
//
// Both the spreadsheet and the Drive folder must be shared with the
// service account's client_email.
package google
