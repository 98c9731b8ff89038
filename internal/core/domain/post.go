package domain

// Post formats.
const (
	FormatAnnounce = "announce"
	FormatInsight  = "insight"
	FormatPractice = "practice"
	FormatCase     = "case"
	FormatQuote    = "quote"
	FormatReflect  = "reflect"
)

// Formats lists every supported post format.
var Formats = []string{FormatAnnounce, FormatInsight, FormatPractice, FormatCase, FormatQuote, FormatReflect}

// IsFormat reports whether f is a supported post format.
func IsFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Rendered is a finished post.
type Rendered struct {
	// Text is the post including header and hashtag line.
	Text string

	// Title and Author are the resolved source metadata.
	Title  string
	Author string

	// Outcome is Degraded when Text is the unavailability placeholder.
	Outcome Outcome
}
