// Package search provides the per-source search view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/components/input"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/components/list"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/components/status"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/keymap"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/messages"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/styles"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

// topK is the number of hits requested per search.
const topK = 10

const (
	sourceLabel = "Source"
	queryLabel  = "Search"
)

// View asks for a source, then searches its chunks.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	list      *list.HitList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	sourceID   string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewField(s, sourceLabel, "source id (Drive file id)"),
		list:          list.NewHitList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetSource scopes the view to one source and asks for a query.
func (v *View) SetSource(sourceID string) {
	v.Reset()
	v.sourceID = sourceID
	if sourceID != "" {
		v.input.SetLabel(queryLabel, "what to look for")
	}
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type != tea.KeyEnter {
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}

		value := strings.TrimSpace(v.input.Value())
		if value == "" {
			return v, nil
		}
		if v.sourceID == "" {
			v.SetSource(value)
			return v, nil
		}
		v.statusbar.SetState(status.StateLoading)
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(value)
	}

	switch k := msg.String(); {
	case keymap.Matches(k, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(k, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(k, v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) performSearch(query string) tea.Cmd {
	sourceID := v.sourceID
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		hits, err := v.searchService.Search(v.ctx, sourceID, query, topK)
		return messages.SearchCompleted{SourceID: sourceID, Query: query, Hits: hits, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}
	v.err = nil
	v.list.SetHits(msg.Hits)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetCount(len(msg.Hits))
	v.focusInput = false
	v.input.Blur()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	title := "Search"
	if v.sourceID != "" {
		title = "Search in " + v.sourceID
	}
	sections := []string{v.styles.Title.Render(title), "", v.input.View(), ""}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// SourceID returns the scoped source.
func (v *View) SourceID() string {
	return v.sourceID
}

// Hits returns the current results.
func (v *View) Hits() []domain.Hit {
	return v.list.Hits()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset clears the source, query and results.
func (v *View) Reset() {
	v.sourceID = ""
	v.focusInput = true
	v.input.SetLabel(sourceLabel, "source id (Drive file id)")
	v.input.SetValue("")
	v.input.Focus()
	v.list.SetHits(nil)
	v.err = nil
	v.statusbar.Clear()
}
