package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
)

func TestParseMessageDetailPrefersPlain(t *testing.T) {
	body := `{"message_plain":"Plain body","message":"<p>HTML body</p>","subject":"Film","from_name":"Jane","from_email":"jane@example.com","time_stamp":"Jan 2, 2026"}`
	detail, err := ParseMessageDetail([]byte(body), "message_id555", "IC555")
	require.NoError(t, err)

	assert.Equal(t, "555", detail.MessageID)
	assert.Equal(t, "IC555", detail.ItemCode)
	assert.Equal(t, "Plain body", detail.Content)
	assert.Equal(t, "Film", detail.Subject)
	assert.Equal(t, "Jane", detail.FromName)
	assert.Equal(t, "jane@example.com", detail.FromEmail)
}

func TestParseMessageDetailHTMLFallback(t *testing.T) {
	body := `{"message":"<p>Hello <b>coach</b></p>"}`
	detail, err := ParseMessageDetail([]byte(body), "555", "IC555")
	require.NoError(t, err)
	assert.Contains(t, detail.Content, "Hello")
	assert.Contains(t, detail.Content, "coach")
	assert.NotContains(t, detail.Content, "<p>")
}

func TestParseMessageDetailStripsQuotedReply(t *testing.T) {
	body := `{"message_plain":"New reply\n\nOn Jan 1 Video wrote:\nold thread"}`
	detail, err := ParseMessageDetail([]byte(body), "555", "IC555")
	require.NoError(t, err)
	assert.Equal(t, "New reply", detail.Content)
}

func TestParseMessageDetailNotJSON(t *testing.T) {
	_, err := ParseMessageDetail([]byte("<html>login page</html>"), "555", "IC555")
	require.Error(t, err)
	assert.True(t, bridgerr.Is(err, bridgerr.KindParseFailed))
}

func TestParseAssignmentDefaults(t *testing.T) {
	defaults := ParseAssignmentDefaults([]byte(`{"stage":"2","video_progress_status":"5"}`))
	assert.Equal(t, "2", defaults.Stage)
	assert.Equal(t, "5", defaults.Status)

	// Unknown shapes never fail; they just carry nothing.
	assert.Zero(t, ParseAssignmentDefaults(nil))
	assert.Zero(t, ParseAssignmentDefaults([]byte("<html></html>")))
	assert.Zero(t, ParseAssignmentDefaults([]byte(`{"other":1}`)))
}

func TestParseLoginCheck(t *testing.T) {
	assert.True(t, ParseLoginCheck(200, []byte(`{"success":"true"}`)))
	assert.True(t, ParseLoginCheck(200, []byte(`{"success":true}`)))
	assert.False(t, ParseLoginCheck(200, []byte(`{"success":"false"}`)))
	assert.False(t, ParseLoginCheck(200, []byte(`not json`)))
	assert.False(t, ParseLoginCheck(302, []byte(`{"success":"true"}`)))
}
