package translator

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const listingPage = `
<div id="message_id555" itemid="555" itemcode="IC555" contacttask="777" athletemainid="888" class="ImageProfile unread">
  <span class="msg-sendr-name">Jane Doe</span>
  <span class="hidden">jane@example.com</span>
  <span class="tit_line1">Highlight video question</span>
  <span class="tit_univ">Hello coach

On Jan 1, 2026 at 9:00 AM Video Team wrote:
quoted history</span>
  <span class="date_css">Jan 2, 2026 3:04 PM</span>
  <i class="fa fa-plus-circle"></i>
  <div class="attachment-item" data-filename="clip.mp4" data-url="https://cdn.example.com/clip.mp4" data-expiry="2026-09-01"></div>
</div>
<div itemid="556" class="ImageProfile">
  <span class="tit_line1">Second thread</span>
</div>`

func TestParseInboxListing(t *testing.T) {
	threads := ParseInboxListing([]byte(listingPage), "fa-plus-circle", testLogger())
	require.Len(t, threads, 2)

	first := threads[0]
	assert.Equal(t, "message_id555", first.ID)
	assert.Equal(t, "IC555", first.ItemCode)
	assert.Equal(t, "777", first.ContactID)
	assert.Equal(t, "888", first.MainID)
	assert.Equal(t, "Jane Doe", first.SenderName)
	assert.Equal(t, "jane@example.com", first.SenderEmail)
	assert.Equal(t, "Highlight video question", first.Subject)
	assert.Equal(t, "Hello coach", first.Preview, "quoted reply must be stripped from the preview")
	assert.True(t, first.CanAssign)
	assert.True(t, first.Unread)
	require.NotNil(t, first.Date)
	assert.Equal(t, 2026, first.Date.Year())
	require.Len(t, first.Attachments, 1)
	assert.Equal(t, "clip.mp4", first.Attachments[0].FileName)
	assert.True(t, first.Attachments[0].Downloadable)

	second := threads[1]
	assert.Equal(t, "556", second.ID, "id falls back to itemid")
	assert.Equal(t, "556", second.ItemCode)
	assert.Equal(t, "Unknown", second.SenderName)
	assert.False(t, second.CanAssign)
	assert.False(t, second.Unread)
}

func TestParseInboxListingIdempotent(t *testing.T) {
	// Parsing is pure: the same body always yields the same threads.
	first := ParseInboxListing([]byte(listingPage), "fa-plus-circle", testLogger())
	second := ParseInboxListing([]byte(listingPage), "fa-plus-circle", testLogger())
	assert.Equal(t, first, second)
}

func TestParseInboxListingMarkerDrift(t *testing.T) {
	// A renamed marker class yields threads with nothing assignable.
	threads := ParseInboxListing([]byte(listingPage), "fa-renamed-icon", testLogger())
	require.Len(t, threads, 2)
	for _, thread := range threads {
		assert.False(t, thread.CanAssign)
	}
}

func TestParseInboxListingEmptyPage(t *testing.T) {
	assert.Empty(t, ParseInboxListing([]byte(""), "fa-plus-circle", testLogger()))
	assert.Empty(t, ParseInboxListing([]byte("<div>no threads</div>"), "fa-plus-circle", testLogger()))
}

func TestParseListingTime(t *testing.T) {
	require.NotNil(t, ParseListingTime("Jan 2, 2026 3:04 PM"))
	require.NotNil(t, ParseListingTime("01/02/2026"))
	assert.Nil(t, ParseListingTime("yesterday-ish"))
	assert.Nil(t, ParseListingTime(""))
}
