package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/keymap"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/messages"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/styles"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/views/draft"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/views/drafts"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/views/menu"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/views/search"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/views/sources"
)

// App is the review TUI following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView    *menu.View
	draftsView  *drafts.View
	draftView   *draft.View
	searchView  *search.View
	sourcesView *sources.View

	currentView messages.ViewType
	err         error
	width       int
	height      int
	ready       bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		menuView:    menu.NewView(s),
		draftsView:  drafts.NewView(s, km, ports.Drafts, ports.Sync),
		draftView:   draft.NewView(s, km, ports.Drafts),
		searchView:  search.NewView(s, km, ports.Search),
		sourcesView: sources.NewView(s, ports.Ingest),
		currentView: messages.ViewDrafts,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx == nil {
		return a
	}
	a.ctx = ctx
	a.draftsView.WithContext(ctx)
	a.draftView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	a.sourcesView.WithContext(ctx)
	return a
}

// WithReviewer sets the name recorded on approvals.
func (a *App) WithReviewer(name string) *App {
	a.draftsView.SetReviewer(name)
	a.draftView.SetReviewer(name)
	return a
}

// WithDate opens the drafts view on date (YYYY-MM-DD).
func (a *App) WithDate(date string) *App {
	if date != "" {
		a.draftsView.SetDate(date)
	}
	return a
}

// Init implements tea.Model. The app opens on the drafts of the selected date.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("autopost review"),
		a.draftsView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		// q quits from views that are not reading text.
		if msg.String() == "q" && a.currentView == messages.ViewDrafts {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDrafts:
			return a, a.draftsView.Init()
		case messages.ViewSources:
			return a, a.sourcesView.Init()
		case messages.ViewSearch:
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewMenu, messages.ViewDraft, messages.ViewHelp:
		}
		return a, nil

	case messages.DraftSelected:
		a.draftView.SetDraft(msg.Draft)
		a.currentView = messages.ViewDraft
		return a, nil

	case messages.SourceSelected:
		a.searchView.SetSource(msg.SourceID)
		a.currentView = messages.ViewSearch
		return a, a.searchView.Init()

	case messages.DraftsLoaded, messages.SyncCompleted:
		a.draftsView, cmd = a.draftsView.Update(msg)
		return a, cmd

	case messages.DraftReviewed:
		if msg.Err != nil {
			a.err = msg.Err
		}
		if a.currentView == messages.ViewDraft {
			a.draftView, cmd = a.draftView.Update(msg)
			return a, cmd
		}
		a.draftsView, cmd = a.draftsView.Update(msg)
		return a, cmd

	case messages.SourcesLoaded:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewDrafts:
		a.draftsView, cmd = a.draftsView.Update(msg)
	case messages.ViewDraft:
		a.draftView, cmd = a.draftView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewSources:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewDrafts:
		return a.draftsView.View()
	case messages.ViewDraft:
		return a.draftView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewSources:
		return a.sourcesView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Drafts:
  j/k, ↑/↓    Select draft
  enter       Open draft
  a           Approve (reviewer is recorded)
  x           Reject
  [ / ]       Previous / next day
  r           Reload
  s           Pull decisions from the review sheet
  esc         Menu

Draft:
  e           Edit text (ctrl+s saves, esc discards)
  a / x       Approve / reject
  esc         Back to drafts

Only approved drafts are published. Sent and rejected drafts are final.

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.draftsView.SetDimensions(width, height)
	a.draftView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.sourcesView.SetDimensions(width, height)
}
