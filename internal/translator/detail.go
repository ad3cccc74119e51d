package translator

import (
	"encoding/json"
	"strings"

	"github.com/jaytaylor/html2text"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/pkg/types"
)

// messageDetailResponse is the ad-hoc JSON shape of the message detail
// endpoint.
type messageDetailResponse struct {
	MessagePlain string `json:"message_plain"`
	Message      string `json:"message"`
	Subject      string `json:"subject"`
	FromEmail    string `json:"from_email"`
	FromName     string `json:"from_name"`
	TimeStamp    string `json:"time_stamp"`
}

// ParseMessageDetail decodes a message detail response. The endpoint prefers
// message_plain; when only the HTML body is present it is converted to text
// before reply-quote stripping.
func ParseMessageDetail(body []byte, messageID, itemCode string) (*types.MessageDetail, error) {
	var resp messageDetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, bridgerr.Wrap(bridgerr.KindParseFailed, err, "message detail was not JSON (%d bytes)", len(body))
	}

	content := resp.MessagePlain
	if content == "" && resp.Message != "" {
		if strings.Contains(resp.Message, "<") {
			if text, err := html2text.FromString(resp.Message, html2text.Options{TextOnly: true}); err == nil {
				content = text
			} else {
				content = resp.Message
			}
		} else {
			content = resp.Message
		}
	}

	return &types.MessageDetail{
		MessageID: StripMessageIDPrefix(messageID),
		ItemCode:  itemCode,
		Subject:   resp.Subject,
		FromName:  resp.FromName,
		FromEmail: resp.FromEmail,
		Content:   CleanPreviewUnbounded(content),
		Timestamp: resp.TimeStamp,
	}, nil
}

// CleanPreviewUnbounded strips quoted-reply text without the preview length
// cap; full message bodies keep their length.
func CleanPreviewUnbounded(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, pat := range replyBoundaryPatterns {
		if loc := pat.FindStringIndex(text); loc != nil {
			return strings.TrimSpace(text[:loc[0]])
		}
	}
	return text
}

// ParseAssignmentDefaults decodes the recommended stage/status lookup.
// Unknown shapes yield empty defaults, never an error; absence of defaults
// must not block an assignment.
func ParseAssignmentDefaults(body []byte) types.AssignmentDefaults {
	var resp struct {
		Stage  string `json:"stage"`
		Status string `json:"video_progress_status"`
	}
	if len(body) == 0 {
		return types.AssignmentDefaults{}
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.AssignmentDefaults{}
	}
	return types.AssignmentDefaults{Stage: resp.Stage, Status: resp.Status}
}

// ParseLoginCheck decodes the authenticated probe. Any unexpected status or
// body shape reads as "not logged in", never as a hard error.
func ParseLoginCheck(statusCode int, body []byte) bool {
	if statusCode != 200 {
		return false
	}
	var resp struct {
		Success interface{} `json:"success"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	switch v := resp.Success.(type) {
	case string:
		return v == "true"
	case bool:
		return v
	default:
		return false
	}
}
