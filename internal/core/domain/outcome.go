package domain

// Outcome tags the result of a call to an unreliable upstream service.
// It lets callers tell a real result from a soft-degraded placeholder
// without inspecting the payload.
type Outcome int

const (
	// OutcomeOK means the upstream call succeeded.
	OutcomeOK Outcome = iota

	// OutcomeDegraded means retries were exhausted and a placeholder was returned.
	OutcomeDegraded

	// OutcomeFatal means a non-retryable failure occurred.
	OutcomeFatal
)

// String returns the string representation.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// IsOK reports whether the outcome carries a usable result.
func (o Outcome) IsOK() bool {
	return o == OutcomeOK
}
