package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

func sampleCLIDrafts() []domain.Draft {
	return []domain.Draft{
		{
			ID: 3, Channel: "books", Format: "announce", SourceID: "doc-1",
			Status: domain.DraftNew, PublishDate: "2026-01-02", PublishTime: "09:00",
			Text: "generated text",
		},
		{
			ID: 4, Channel: "books", Format: "quote", SourceID: "doc-1",
			Status: domain.DraftApproved, PublishDate: "2026-01-02", PublishTime: "18:00",
			Text: "generated", EditedText: "reviewer text", ApprovedBy: "anna",
		},
	}
}

func TestDraftsCmd_List(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.drafts.drafts = sampleCLIDrafts()

	out, err := execute(t, "drafts", "list", "--date", "2026-01-02", "--channel", "books", "--status", "approved", "-n", "10")

	require.NoError(t, err)
	assert.Equal(t, domain.DraftFilter{Channel: "books", Date: "2026-01-02", Status: domain.DraftApproved, Limit: 10}, ts.drafts.lastFilter)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "generated text")
	assert.Contains(t, out, "reviewer text")
}

func TestDraftsCmd_BareListsDrafts(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.drafts.drafts = sampleCLIDrafts()

	out, err := execute(t, "drafts")

	require.NoError(t, err)
	assert.Equal(t, 50, ts.drafts.lastFilter.Limit)
	assert.Contains(t, out, "generated text")
}

func TestDraftsCmd_List_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "drafts", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No drafts found.")
}

func TestDraftsCmd_List_UnknownStatus(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "drafts", "list", "--status", "pending")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "pending"`)
}

func TestDraftsCmd_Show(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.drafts.drafts = sampleCLIDrafts()

	out, err := execute(t, "drafts", "show", "4")

	require.NoError(t, err)
	assert.Contains(t, out, "Draft:   4")
	assert.Contains(t, out, "Approved by anna")
	assert.Contains(t, out, "Edited:")
	assert.Contains(t, out, "reviewer text")
}

func TestDraftsCmd_Show_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "drafts", "show", "99")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraftsCmd_InvalidID(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	for _, id := range []string{"abc", "0", "-2"} {
		_, err := execute(t, "drafts", "reject", "--", id)
		require.Error(t, err, id)
		assert.Contains(t, err.Error(), "invalid draft id")
	}
}

func TestDraftsCmd_Approve(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "drafts", "approve", "3", "--by", "anna")

	require.NoError(t, err)
	assert.Equal(t, "anna", ts.drafts.approvedBy)
	assert.Contains(t, out, "Draft 3 approved by anna.")
}

func TestDraftsCmd_Approve_RequiresReviewer(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "drafts", "approve", "3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--by is required")
}

func TestDraftsCmd_Approve_InvalidTransition(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.drafts.err = domain.ErrInvalidTransition

	_, err := execute(t, "drafts", "approve", "3", "--by", "anna")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDraftsCmd_Reject(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "drafts", "reject", "7")

	require.NoError(t, err)
	assert.Equal(t, int64(7), ts.drafts.rejected)
	assert.Contains(t, out, "Draft 7 rejected.")
}

func TestDraftsCmd_Edit(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "drafts", "edit", "5", "new text")

	require.NoError(t, err)
	assert.Equal(t, int64(5), ts.drafts.editedID)
	assert.Equal(t, "new text", ts.drafts.editedText)
	assert.Contains(t, out, "Draft 5 updated.")
}
