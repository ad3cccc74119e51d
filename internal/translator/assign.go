package translator

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/pkg/types"
)

// BuildAssignmentSubmission maps a typed payload to the legacy assignment
// form body. Fields with historical alias spellings are populated under every
// spelling; different backend code paths read different ones.
func BuildAssignmentSubmission(p types.AssignmentPayload) url.Values {
	form := url.Values{
		"messageid":            {StripMessageIDPrefix(p.MessageID)},
		"videoscoutassignedto": {p.OwnerID},
		"contactfor":           {p.ContactFor},
		"contact":              {p.Contact},
		"_token":               {p.FormToken},
	}
	setAliased(form, "contact_task", p.ContactID)
	setAliased(form, "athlete_main_id", p.MainID)
	setAliased(form, "video_progress_stage", p.Stage)
	setAliased(form, "video_progress_status", p.Status)
	return form
}

// ParseAssignmentResult classifies the assignment submission response. An
// HTTP 200 with an empty body is how this endpoint signals success and must
// not be mistaken for failure. Anti-forgery rejections map to a stale-token
// error so the caller can re-fetch the modal exactly once.
func ParseAssignmentResult(statusCode int, body []byte) error {
	trimmed := strings.TrimSpace(string(body))

	if statusCode == 419 {
		return bridgerr.New(bridgerr.KindTokenStale, "assignment rejected: anti-forgery token expired").WithStatus(statusCode)
	}

	if statusCode == 200 && trimmed == "" {
		return nil
	}

	if statusCode != 200 {
		return bridgerr.New(bridgerr.KindUpstreamRejected, "assignment failed: %s", snippet(trimmed)).WithStatus(statusCode)
	}

	var resp struct {
		Success interface{} `json:"success"`
		Message string      `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return bridgerr.Wrap(bridgerr.KindParseFailed, err, "assignment response was neither empty nor JSON (%d bytes)", len(body))
	}

	switch v := resp.Success.(type) {
	case bool:
		if v {
			return nil
		}
	case string:
		if v == "true" {
			return nil
		}
	}

	if strings.Contains(strings.ToLower(resp.Message), "token") {
		return bridgerr.New(bridgerr.KindTokenStale, "assignment rejected: %s", resp.Message).WithStatus(statusCode)
	}

	return bridgerr.New(bridgerr.KindUpstreamRejected, "assignment failed: %s", snippet(resp.Message)).WithStatus(statusCode)
}

func snippet(s string) string {
	if s == "" {
		return "(no message)"
	}
	return truncateRunes(s, 200)
}
