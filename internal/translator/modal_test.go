package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
)

const modalPage = `
<form>
  <input type="hidden" name="_token" value="tok-abc">
  <input type="hidden" name="messageid" value="555">
  <input type="text" name="contact" value="Jane Doe">
  <input type="hidden" name="contact_task" value="777">
  <input type="hidden" name="athlete_main_id" value="888">
  <select name="videoscoutassignedto">
    <option value="10">Alice</option>
    <option value="20">Bob</option>
  </select>
  <select name="video_progress_stage">
    <option value="1">Editing</option>
    <option value="2">Review</option>
  </select>
  <select name="video_progress_status">
    <option value="5">In Progress</option>
  </select>
  <select name="contactfor">
    <option value="athlete">Athlete</option>
    <option value="parent" selected>Parent</option>
  </select>
</form>`

func TestParseAssignmentModal(t *testing.T) {
	modal, err := ParseAssignmentModal([]byte(modalPage), "")
	require.NoError(t, err)

	assert.Equal(t, "tok-abc", modal.FormToken)
	assert.Equal(t, "555", modal.MessageID)
	assert.Equal(t, "Jane Doe", modal.ContactSearchValue)
	assert.Equal(t, "777", modal.ContactID)
	assert.Equal(t, "888", modal.MainID)
	assert.Equal(t, "parent", modal.DefaultSearchFor)

	require.Len(t, modal.Owners, 2)
	require.Len(t, modal.Stages, 2)
	require.Len(t, modal.Statuses, 1)
	assert.Equal(t, "Editing", modal.Stages[0].Label)

	require.NotNil(t, modal.DefaultOwner)
	assert.Equal(t, "10", modal.DefaultOwner.Value, "first owner is the default when none is configured")
}

func TestParseAssignmentModalConfiguredOwner(t *testing.T) {
	modal, err := ParseAssignmentModal([]byte(modalPage), "20")
	require.NoError(t, err)
	require.NotNil(t, modal.DefaultOwner)
	assert.Equal(t, "Bob", modal.DefaultOwner.Label)
}

func TestParseAssignmentModalUnknownShape(t *testing.T) {
	_, err := ParseAssignmentModal([]byte("<html><body>maintenance page</body></html>"), "")
	require.Error(t, err)
	assert.True(t, bridgerr.Is(err, bridgerr.KindParseFailed))
}

func TestParseAssignmentModalDefaultSearchCategory(t *testing.T) {
	// No contactfor select at all: athlete is assumed.
	page := `<form><input name="_token" value="t"><select name="videoscoutassignedto"><option value="1">A</option></select></form>`
	modal, err := ParseAssignmentModal([]byte(page), "")
	require.NoError(t, err)
	assert.Equal(t, "athlete", modal.DefaultSearchFor)
}
