// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/styles"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// HitList displays ranked chunks in a navigable list.
type HitList struct {
	hits     []domain.Hit
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewHitList creates a new hit list component.
func NewHitList(s *styles.Styles) *HitList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &HitList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *HitList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *HitList) Update(msg tea.Msg) (*HitList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *HitList) View() string {
	if len(r.hits) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.hits)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.hits))), "")

	// Each hit takes two lines.
	visible := (r.height - 4) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.hits) {
		end = len(r.hits)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderHit(i, &r.hits[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *HitList) renderHit(index int, hit *domain.Hit) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%schunk #%d", indicator, hit.Index)
	score := fmt.Sprintf("%.3f", hit.Score)

	var headLine string
	if index == r.selected {
		headLine = r.styles.Selected.Render(head + "  " + score)
	} else {
		headLine = r.styles.Normal.Render(head+"  ") + r.styles.Muted.Render(score)
	}

	maxPreview := r.width - 6
	if maxPreview < 20 {
		maxPreview = 20
	}
	return headLine + "\n" + r.styles.Muted.Render("    "+Clip(hit.Text, maxPreview))
}

// Clip shortens s to at most n runes, marking the cut with "...".
func Clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetHits replaces the list contents.
func (r *HitList) SetHits(hits []domain.Hit) {
	r.hits = hits
	r.selected = 0
}

// Hits returns the current hits.
func (r *HitList) Hits() []domain.Hit {
	return r.hits
}

// Selected returns the index of the selected hit.
func (r *HitList) Selected() int {
	return r.selected
}

// SelectedHit returns the currently selected hit, or nil if none.
func (r *HitList) SelectedHit() *domain.Hit {
	if r.selected < 0 || r.selected >= len(r.hits) {
		return nil
	}
	return &r.hits[r.selected]
}

// MoveUp moves selection up.
func (r *HitList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *HitList) MoveDown() {
	if r.selected < len(r.hits)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *HitList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of hits.
func (r *HitList) Count() int {
	return len(r.hits)
}
