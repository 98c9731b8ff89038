package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to DraftStatus
		want     bool
	}{
		{DraftNew, DraftApproved, true},
		{DraftNew, DraftRejected, true},
		{DraftNew, DraftSent, false},
		{DraftApproved, DraftSent, true},
		{DraftApproved, DraftRejected, true},
		{DraftApproved, DraftNew, false},
		{DraftSent, DraftNew, false},
		{DraftSent, DraftApproved, false},
		{DraftRejected, DraftApproved, false},
		{DraftRejected, DraftNew, false},
		{DraftApproved, DraftApproved, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseDraftStatus(t *testing.T) {
	st, ok := ParseDraftStatus("  Approved ")
	assert.True(t, ok)
	assert.Equal(t, DraftApproved, st)

	_, ok = ParseDraftStatus("approved!!")
	assert.False(t, ok)

	_, ok = ParseDraftStatus("")
	assert.False(t, ok)
}

func TestDraftStatus_IsTerminal(t *testing.T) {
	assert.True(t, DraftSent.IsTerminal())
	assert.True(t, DraftRejected.IsTerminal())
	assert.False(t, DraftNew.IsTerminal())
	assert.False(t, DraftApproved.IsTerminal())
}

func TestDraft_EffectiveText(t *testing.T) {
	d := &Draft{Text: " generated ", EditedText: "  "}
	assert.Equal(t, "generated", d.EffectiveText())

	d.EditedText = " edited "
	assert.Equal(t, "edited", d.EffectiveText())

	empty := &Draft{}
	assert.Empty(t, empty.EffectiveText())
}

func TestSheetRow_Matches(t *testing.T) {
	row := SheetRow{Channel: "C1", Date: "2024-01-10", Format: "quote"}

	assert.True(t, row.Matches(DraftKey{Channel: "C1", Date: "2024-01-10", Format: "quote"}))
	assert.False(t, row.Matches(DraftKey{Channel: "C1", Date: "2024-01-11", Format: "quote"}))
}
