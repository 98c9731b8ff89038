// Package drafts provides the day review list for the TUI.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/components/list"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/components/status"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/keymap"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/messages"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/styles"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

const dateLayout = "2006-01-02"

// ErrNoDraftService indicates that no draft service was provided.
var ErrNoDraftService = errors.New("draft service is required")

// View lists the drafts of one publish date.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	draftService driving.DraftService
	syncService  driving.SyncService
	ctx          context.Context
	reviewer     string

	date     string
	drafts   []domain.Draft
	selected int
	width    int
	height   int
	loading  bool
	err      error
}

// NewView creates a drafts view for tomorrow's date.
func NewView(s *styles.Styles, km *keymap.KeyMap, drafts driving.DraftService, sync driving.SyncService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:       s,
		keymap:       km,
		statusbar:    status.NewBar(s, km),
		draftService: drafts,
		syncService:  sync,
		ctx:          context.Background(),
		reviewer:     "tui",
		date:         time.Now().AddDate(0, 0, 1).Format(dateLayout),
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetReviewer sets the name recorded on approvals.
func (v *View) SetReviewer(name string) {
	if strings.TrimSpace(name) != "" {
		v.reviewer = name
	}
}

// SetDate switches the listed date.
func (v *View) SetDate(date string) {
	v.date = date
	v.selected = 0
}

// Date returns the listed date.
func (v *View) Date() string {
	return v.date
}

// Init loads the drafts of the current date.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	v.loading = true
	v.statusbar.SetState(status.StateLoading)
	date := v.date
	return func() tea.Msg {
		if v.draftService == nil {
			return messages.DraftsLoaded{Date: date, Err: ErrNoDraftService}
		}
		drafts, err := v.draftService.List(v.ctx, domain.DraftFilter{Date: date})
		return messages.DraftsLoaded{Date: date, Drafts: drafts, Err: err}
	}
}

// Update handles messages for the drafts view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DraftsLoaded:
		if msg.Date != v.date {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.drafts = msg.Drafts
		if v.selected >= len(v.drafts) {
			v.selected = max(len(v.drafts)-1, 0)
		}
		v.statusbar.SetState(status.StateReview)
		v.statusbar.SetCount(len(v.drafts))
		return v, nil

	case messages.DraftReviewed:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.statusbar.SetMessage(fmt.Sprintf("Draft %d %s", msg.ID, msg.Action))
		return v, v.load()

	case messages.SyncCompleted:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.statusbar.SetMessage(fmt.Sprintf("Sheet sync applied %d change(s)", msg.Applied))
		return v, v.load()

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}

	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.drafts)-1 {
			v.selected++
		}

	case keymap.Matches(k, v.keymap.Select):
		if d := v.SelectedDraft(); d != nil {
			draft := *d
			return v, func() tea.Msg { return messages.DraftSelected{Draft: draft} }
		}

	case keymap.Matches(k, v.keymap.Approve):
		return v, v.review("approved")

	case keymap.Matches(k, v.keymap.Reject):
		return v, v.review("rejected")

	case keymap.Matches(k, v.keymap.PrevDay):
		v.shiftDate(-1)
		return v, v.load()

	case keymap.Matches(k, v.keymap.NextDay):
		v.shiftDate(1)
		return v, v.load()

	case keymap.Matches(k, v.keymap.Reload):
		v.statusbar.SetMessage("")
		return v, v.load()

	case keymap.Matches(k, v.keymap.Sync):
		return v, v.sync()
	}
	return v, nil
}

// review applies an approve or reject to the selected draft.
func (v *View) review(action string) tea.Cmd {
	d := v.SelectedDraft()
	if d == nil || v.draftService == nil {
		return nil
	}
	id := d.ID
	reviewer := v.reviewer
	return func() tea.Msg {
		var err error
		if action == "approved" {
			err = v.draftService.Approve(v.ctx, id, reviewer)
		} else {
			err = v.draftService.Reject(v.ctx, id)
		}
		return messages.DraftReviewed{ID: id, Action: action, Err: err}
	}
}

func (v *View) sync() tea.Cmd {
	if v.syncService == nil {
		v.statusbar.SetMessage("Review sheet not configured")
		return nil
	}
	v.statusbar.SetState(status.StateLoading)
	return func() tea.Msg {
		n, err := v.syncService.SyncAll(v.ctx)
		return messages.SyncCompleted{Applied: n, Err: err}
	}
}

func (v *View) shiftDate(days int) {
	t, err := time.Parse(dateLayout, v.date)
	if err != nil {
		t = time.Now()
	}
	v.SetDate(t.AddDate(0, 0, days).Format(dateLayout))
	v.statusbar.SetMessage("")
}

func (v *View) setError(err error) {
	v.loading = false
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the drafts view.
func (v *View) View() string {
	sections := []string{
		v.styles.Title.Render("Drafts for " + v.date),
		"",
	}

	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading drafts..."))
	case v.err != nil && len(v.drafts) == 0:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case len(v.drafts) == 0:
		sections = append(sections, v.styles.Muted.Render("No drafts for this date. Press ] for the next day."))
	default:
		sections = append(sections, v.renderRows())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderRows() string {
	preview := v.width - 46
	if preview < 20 {
		preview = 20
	}

	rows := make([]string, 0, len(v.drafts))
	for i := range v.drafts {
		d := &v.drafts[i]
		badge := v.styles.Badge(d.Status)
		text := fmt.Sprintf("%-5s %-14s %-8s ", d.PublishTime, list.Clip(d.Channel, 14), d.Format)
		body := list.Clip(d.EffectiveText(), preview)
		if i == v.selected {
			rows = append(rows, v.styles.Selected.Render("> "+text)+badge+" "+v.styles.Normal.Render(body))
		} else {
			rows = append(rows, "  "+v.styles.Normal.Render(text)+badge+" "+v.styles.Muted.Render(body))
		}
	}
	return strings.Join(rows, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
}

// Drafts returns the listed drafts.
func (v *View) Drafts() []domain.Draft {
	return v.drafts
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// SelectedDraft returns the selected draft, or nil when the list is empty.
func (v *View) SelectedDraft() *domain.Draft {
	if v.selected < 0 || v.selected >= len(v.drafts) {
		return nil
	}
	return &v.drafts[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}
