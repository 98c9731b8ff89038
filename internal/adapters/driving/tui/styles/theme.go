// Package styles provides the colour palette and lipgloss styles for the
// review TUI.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// Theme is the colour palette. Draft states get their own colours so a
// day's queue can be read at a glance.
type Theme struct {
	Accent    lipgloss.Color
	Highlight lipgloss.Color
	Text      lipgloss.Color
	Dim       lipgloss.Color
	Frame     lipgloss.Color
	Bar       lipgloss.Color

	Pending  lipgloss.Color
	Approved lipgloss.Color
	Rejected lipgloss.Color
	Sent     lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#229ED9"),
		Highlight: lipgloss.Color("#F2994A"),
		Text:      lipgloss.Color("#CDD6F4"),
		Dim:       lipgloss.Color("#6C7086"),
		Frame:     lipgloss.Color("#45475A"),
		Bar:       lipgloss.Color("#181825"),

		Pending:  lipgloss.Color("#F9E2AF"),
		Approved: lipgloss.Color("#A6E3A1"),
		Rejected: lipgloss.Color("#F38BA8"),
		Sent:     lipgloss.Color("#89B4FA"),
	}
}

// Styles holds the styles shared by every view.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style

	// Error, Success and Warning colour notices.
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Rule draws the separator between a draft header and its text.
	Rule lipgloss.Style

	status map[domain.DraftStatus]lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return &Styles{
		theme: theme,

		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.Highlight).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Dim),
		Selected: fg(theme.Text).Background(theme.Accent).Bold(true),
		Help:     fg(theme.Dim).Italic(true),

		Error:   fg(theme.Rejected),
		Success: fg(theme.Approved),
		Warning: fg(theme.Pending),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),
		StatusBar: fg(theme.Dim).Background(theme.Bar).Padding(0, 1),
		Rule:      fg(theme.Frame),

		status: map[domain.DraftStatus]lipgloss.Style{
			domain.DraftNew:      fg(theme.Pending),
			domain.DraftApproved: fg(theme.Approved).Bold(true),
			domain.DraftRejected: fg(theme.Rejected),
			domain.DraftSent:     fg(theme.Sent),
		},
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette behind these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Status returns the style for a draft status. Unknown states are muted.
func (s *Styles) Status(status domain.DraftStatus) lipgloss.Style {
	if st, ok := s.status[status]; ok {
		return st
	}
	return s.Muted
}

// Badge renders a status padded to a fixed width so list columns line up.
func (s *Styles) Badge(status domain.DraftStatus) string {
	return s.Status(status).Render(fmt.Sprintf("%-8s", status))
}

// HorizontalRule renders a separator of the given width, clamped to 10..60.
func (s *Styles) HorizontalRule(width int) string {
	return s.Rule.Render(strings.Repeat("─", min(max(width, 10), 60)))
}
