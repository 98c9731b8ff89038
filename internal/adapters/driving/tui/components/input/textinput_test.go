package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/adapters/driving/tui/styles"
)

func TestNewField(t *testing.T) {
	f := NewField(styles.DefaultStyles(), "Search", "query...")

	require.NotNil(t, f)
	assert.Equal(t, "", f.Value())
	assert.True(t, f.Focused())
	assert.Equal(t, "Search", f.Label())
}

func TestNewField_NilStyles(t *testing.T) {
	f := NewField(nil, "Source", "")

	require.NotNil(t, f)
	assert.NotNil(t, f.styles)
}

func TestField_Init(t *testing.T) {
	f := NewField(nil, "Search", "")

	assert.NotNil(t, f.Init())
}

func TestField_Typing(t *testing.T) {
	f := NewField(nil, "Search", "")

	for _, k := range "habit" {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}})
	}
	assert.Equal(t, "habit", f.Value())

	f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "habi", f.Value())
}

func TestField_View(t *testing.T) {
	f := NewField(nil, "Source", "")

	assert.Contains(t, f.View(), "Source")

	f.SetLabel("Search", "query")
	assert.Contains(t, f.View(), "Search")
	assert.Equal(t, "Search", f.Label())
}

func TestField_FocusBlur(t *testing.T) {
	f := NewField(nil, "Search", "")

	f.Blur()
	assert.False(t, f.Focused())

	assert.NotNil(t, f.Focus())
	assert.True(t, f.Focused())
}

func TestField_Width(t *testing.T) {
	f := NewField(nil, "Search", "")
	assert.Equal(t, 50, f.Width())

	f.SetWidth(100)
	assert.Equal(t, 100, f.Width())

	f.SetWidth(10)
	assert.Equal(t, 10, f.Width())
}

func TestField_Reset(t *testing.T) {
	f := NewField(nil, "Search", "")
	f.SetValue("some text")

	f.Reset()

	assert.Equal(t, "", f.Value())
}
