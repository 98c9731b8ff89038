// Package sources provides the ingested sources view for the TUI.
package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/messages"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/styles"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

// ErrNoIngestService indicates that no ingest service was provided.
var ErrNoIngestService = errors.New("ingest service not available")

// View lists ingested sources with their chunk counts.
type View struct {
	styles        *styles.Styles
	ingestService driving.IngestService
	ctx           context.Context

	sources  []domain.SourceStats
	selected int
	width    int
	height   int
	err      error
	loading  bool
}

// NewView creates a new sources view.
func NewView(s *styles.Styles, ingest driving.IngestService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		ingestService: ingest,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the sources.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return func() tea.Msg {
		if v.ingestService == nil {
			return messages.SourcesLoaded{Err: ErrNoIngestService}
		}
		stats, err := v.ingestService.Sources(v.ctx)
		return messages.SourcesLoaded{Sources: stats, Err: err}
	}
}

// Update handles messages for the sources view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.SourcesLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.sources = msg.Sources
			if v.selected >= len(v.sources) {
				v.selected = max(len(v.sources)-1, 0)
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.sources)-1 {
				v.selected++
			}
		case "r":
			return v, v.Init()
		case "enter":
			if src := v.SelectedSource(); src != nil {
				id := src.SourceID
				return v, func() tea.Msg { return messages.SourceSelected{SourceID: id} }
			}
		}
	}
	return v, nil
}

// View renders the sources list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Sources"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading sources..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.sources) == 0:
		b.WriteString(v.styles.Muted.Render("No sources ingested. Run 'autopost ingest <source-id>'."))
	default:
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("  %-40s %8s %8s", "SOURCE", "CHUNKS", "DEGRADED")))
		b.WriteString("\n")
		for i, src := range v.sources {
			line := fmt.Sprintf("%-40s %8d %8d", src.SourceID, src.Chunks, src.Degraded)
			if i == v.selected {
				b.WriteString(v.styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + v.styles.Normal.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] search source  [r] reload  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Sources returns the loaded sources.
func (v *View) Sources() []domain.SourceStats {
	return v.sources
}

// SelectedSource returns the selected source or nil.
func (v *View) SelectedSource() *domain.SourceStats {
	if v.selected < 0 || v.selected >= len(v.sources) {
		return nil
	}
	return &v.sources[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
