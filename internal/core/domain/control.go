package domain

import "strings"

// Control request statuses on the review surface.
const (
	ControlStatusRequest = "request"
	ControlStatusDone    = "done"
	ControlStatusError   = "error"
)

// Control actions.
const (
	ActionGenerate    = "generate"
	ActionGenerateDay = "generate_day"
	ActionSync        = "sync"
	ActionIngest      = "ingest"
)

// ControlRequest is one row of the control queue.
type ControlRequest struct {
	// Row is the surface-specific row locator used to write the status back.
	Row int

	Timestamp string
	Action    string
	Date      string
	Channel   string
	Alias     string
	Status    string
	Note      string
}

// NormalizedAction returns the trimmed, lowercased action.
func (r ControlRequest) NormalizedAction() string {
	return strings.ToLower(strings.TrimSpace(r.Action))
}

// DedupeKey identifies the request across polls.
func (r ControlRequest) DedupeKey() string {
	return strings.Join([]string{
		strings.TrimSpace(r.Timestamp),
		r.NormalizedAction(),
		strings.TrimSpace(r.Date),
		strings.TrimSpace(r.Channel),
	}, "|")
}

// IsPending reports whether the row still asks to be processed.
func (r ControlRequest) IsPending() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), ControlStatusRequest)
}
