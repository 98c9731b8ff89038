package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

func sampleSummary() *domain.Summary {
	return &domain.Summary{
		About:     domain.About{Title: "Atomic Habits", Author: "James Clear", Thesis: "Small changes compound."},
		KeyIdeas:  []string{"identity first"},
		Practices: []domain.Practice{{Name: "Habit stacking", Steps: []string{"pick an anchor"}}},
		Quotes:    []domain.Quote{{Text: "You do not rise to the level of your goals."}},
	}
}

func TestSummaryCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.summary = sampleSummary()

	out, err := execute(t, "summary", "doc-1")

	require.NoError(t, err)
	assert.False(t, ts.summary.invalidated)
	assert.Contains(t, out, "Atomic Habits")
	assert.Contains(t, out, "Key ideas:")
	assert.Contains(t, out, "Practice: Habit stacking")
	assert.Contains(t, out, "«You do not rise to the level of your goals.»")
}

func TestSummaryCmd_Refresh(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.summary = sampleSummary()

	_, err := execute(t, "summary", "doc-1", "--refresh")

	require.NoError(t, err)
	assert.True(t, ts.summary.invalidated)
}

func TestSummaryCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "summary", "doc-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Summary is empty")
}

func TestSummaryCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.summary = sampleSummary()

	out, err := execute(t, "summary", "doc-1", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"key_ideas"`)
}

func TestRenderCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.render.out = domain.Rendered{Text: "post body", Outcome: domain.OutcomeOK}

	out, err := execute(t, "render", "doc-1", "quote", "-c", "books")

	require.NoError(t, err)
	assert.Equal(t, "quote", ts.render.lastFormat)
	assert.Equal(t, "books", ts.render.lastChannel)
	assert.Contains(t, out, "post body")
	assert.NotContains(t, out, "(generation")
}

func TestRenderCmd_Degraded(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.render.out = domain.Rendered{Text: "placeholder", Outcome: domain.OutcomeDegraded}

	out, err := execute(t, "render", "doc-1", "quote")

	require.NoError(t, err)
	assert.Contains(t, out, "(generation")
}
