// Package draft provides the single draft view with inline editing.
package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/keymap"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/messages"
	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/styles"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driving"
)

// View shows one draft. In edit mode a textarea replaces the body.
type View struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	draftService driving.DraftService
	ctx          context.Context
	reviewer     string

	draft        *domain.Draft
	lines        []string
	scrollOffset int
	editor       textarea.Model
	editing      bool
	notice       string
	err          error
	width        int
	height       int
}

// NewView creates a draft view.
func NewView(s *styles.Styles, km *keymap.KeyMap, drafts driving.DraftService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0

	return &View{
		styles:       s,
		keymap:       km,
		draftService: drafts,
		ctx:          context.Background(),
		reviewer:     "tui",
		editor:       editor,
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

// SetDraft shows d and leaves edit mode.
func (v *View) SetDraft(d domain.Draft) {
	v.draft = &d
	v.scrollOffset = 0
	v.editing = false
	v.editor.Blur()
	v.err = nil
	v.wrap()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the draft view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKey(msg)

	case messages.DraftReviewed:
		if v.draft == nil || msg.ID != v.draft.ID {
			return v, nil
		}
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Draft %s", msg.Action)
		return v, v.refresh()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	if v.editing {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		v.notice = ""
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDrafts} }

	case keymap.Matches(k, v.keymap.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}

	case keymap.Matches(k, v.keymap.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}

	case keymap.Matches(k, v.keymap.Approve):
		return v, v.act("approved")

	case keymap.Matches(k, v.keymap.Reject):
		return v, v.act("rejected")

	case keymap.Matches(k, v.keymap.Edit):
		if v.draft == nil {
			return v, nil
		}
		if v.draft.Status.IsTerminal() {
			v.err = fmt.Errorf("draft is %s: %w", v.draft.Status, domain.ErrInvalidTransition)
			return v, nil
		}
		v.editing = true
		v.err = nil
		v.editor.SetValue(v.draft.EffectiveText())
		return v, v.editor.Focus()
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		v.editing = false
		v.editor.Blur()
		v.notice = "Edit discarded"
		return v, nil

	case keymap.Matches(k, v.keymap.Save):
		v.editing = false
		v.editor.Blur()
		return v, v.save(v.editor.Value())
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) act(action string) tea.Cmd {
	if v.draft == nil || v.draftService == nil {
		return nil
	}
	id := v.draft.ID
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

func (v *View) save(text string) tea.Cmd {
	if v.draft == nil || v.draftService == nil {
		return nil
	}
	id := v.draft.ID
	return func() tea.Msg {
		err := v.draftService.Edit(v.ctx, id, text)
		return messages.DraftReviewed{ID: id, Action: "edited", Err: err}
	}
}

func (v *View) refresh() tea.Cmd {
	id := v.draft.ID
	return func() tea.Msg {
		d, err := v.draftService.Get(v.ctx, id)
		if err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.DraftSelected{Draft: *d}
	}
}

func (v *View) wrap() {
	v.lines = nil
	if v.draft == nil {
		return
	}
	width := v.width - 4
	if width < 20 {
		width = 20
	}
	for _, line := range strings.Split(v.draft.EffectiveText(), "\n") {
		runes := []rune(line)
		for len(runes) > width {
			v.lines = append(v.lines, string(runes[:width]))
			runes = runes[width:]
		}
		v.lines = append(v.lines, string(runes))
	}
}

func (v *View) visibleLines() int {
	return max(v.height-10, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the draft.
func (v *View) View() string {
	var b strings.Builder
	if v.draft == nil {
		b.WriteString(v.styles.Muted.Render("No draft selected"))
		return b.String()
	}

	d := v.draft
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Draft %d  %s %s", d.ID, d.PublishDate, d.PublishTime)))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(d.Channel + " / " + d.Format))
	b.WriteString("  ")
	b.WriteString(v.styles.Status(d.Status).Render(d.Status.String()))
	if d.ApprovedBy != "" {
		b.WriteString(v.styles.Muted.Render("  by " + d.ApprovedBy))
	}
	b.WriteString("\n")
	b.WriteString(v.styles.HorizontalRule(v.width - 4))
	b.WriteString("\n\n")

	if v.editing {
		b.WriteString(v.editor.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[ctrl+s] save  [esc] discard"))
		return b.String()
	}

	end := min(v.scrollOffset+v.visibleLines(), len(v.lines))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.styles.Normal.Render(v.lines[i]))
		b.WriteString("\n")
	}
	if d.EditedText != "" {
		b.WriteString(v.styles.Muted.Render("(edited by reviewer)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[a] approve  [x] reject  [e] edit  [↑/↓] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.editor.SetWidth(max(width-4, 20))
	v.editor.SetHeight(max(height-10, 3))
	v.wrap()
}

// Draft returns the shown draft.
func (v *View) Draft() *domain.Draft {
	return v.draft
}

// Editing reports whether the editor is open.
func (v *View) Editing() bool {
	return v.editing
}

// EditorValue returns the editor contents.
func (v *View) EditorValue() string {
	return v.editor.Value()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
