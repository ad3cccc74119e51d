// Package translator is the pure mapping layer between typed bridge requests
// and the dashboard's legacy wire format. It builds the exact parameter sets
// each legacy endpoint expects and decodes whatever comes back (HTML fragment
// or ad-hoc JSON) into normalized domain objects. No network or session logic
// lives here.
package translator

import (
	"net/url"
	"strconv"
)

// Legacy endpoint paths. Which of these speak JSON and which return HTML is a
// per-endpoint convention, never a global rule; see WantsJSON.
const (
	PathLogin              = "/auth/login"
	PathLoginCheck         = "/external/logincheck"
	PathInboxListing       = "/rulestemplates/template/videoteammessagelist"
	PathMessageDetail      = "/rulestemplates/template/videoteammessage_subject"
	PathAssignmentModal    = "/rulestemplates/template/assignemailtovideoteam"
	PathContactSearch      = "/template/calendaraccess/contactslist"
	PathAssignmentDefaults = "/rulestemplates/messageassigninfo"
	PathAssignSubmit       = "/videoteammsg/assignvideoteam"
	PathAthleteProfile     = "/athlete/"
)

// jsonEndpoints are the endpoints that return JSON when sent the ajax
// request-identifying header. Everything else returns server-rendered HTML.
var jsonEndpoints = map[string]bool{
	PathLoginCheck:         true,
	PathMessageDetail:      true,
	PathAssignmentDefaults: true,
}

// WantsJSON reports whether the endpoint must be called with the ajax header
// to receive JSON instead of a full HTML page.
func WantsJSON(path string) bool {
	return jsonEndpoints[path]
}

// wireAliases enumerates every known wire-format spelling of a logical field.
// Several write endpoints historically read one spelling or the other
// depending on code path, so all spellings are always populated.
var wireAliases = map[string][]string{
	"contact_task":          {"contact_task", "contacttask"},
	"athlete_main_id":       {"athlete_main_id", "athletemainid"},
	"video_progress_stage":  {"video_progress_stage", "videoprogressstage"},
	"video_progress_status": {"video_progress_status", "videoprogressstatus"},
}

// setAliased writes value under every known spelling of the canonical field.
func setAliased(form url.Values, canonical, value string) {
	names, ok := wireAliases[canonical]
	if !ok {
		names = []string{canonical}
	}
	for _, name := range names {
		form.Set(name, value)
	}
}

// ListingFilters narrows an inbox listing request.
type ListingFilters struct {
	SearchText string
	Timezone   string
}

// BuildInboxListingRequest produces the query parameters for one listing
// page. The listing endpoint rejects requests with missing keys, not just
// wrong values, so the always-empty fields are still sent.
func BuildInboxListingRequest(page int, filters ListingFilters) url.Values {
	tz := filters.Timezone
	if tz == "" {
		tz = "America/New_York"
	}
	return url.Values{
		"athleteid":         {""},
		"user_timezone":     {tz},
		"type":              {"inbox"},
		"is_mobile":         {""},
		"filter_self":       {"Me/Un"},
		"refresh":           {"false"},
		"page_start_number": {strconv.Itoa(page)},
		"search_text":       {filters.SearchText},
	}
}

// BuildMessageDetailRequest produces the query parameters for the message
// detail endpoint. Listing ids sometimes arrive prefixed with "message_id";
// the prefix is stripped before the call.
func BuildMessageDetailRequest(messageID, itemCode, timezone string) url.Values {
	if timezone == "" {
		timezone = "America/New_York"
	}
	return url.Values{
		"message_id":    {StripMessageIDPrefix(messageID)},
		"itemcode":      {itemCode},
		"type":          {"inbox"},
		"user_timezone": {timezone},
		"filter_self":   {"Me/Un"},
	}
}

// StripMessageIDPrefix removes the "message_id" container prefix from a
// listing element id.
func StripMessageIDPrefix(id string) string {
	const prefix = "message_id"
	if len(id) > len(prefix) && id[:len(prefix)] == prefix {
		return id[len(prefix):]
	}
	return id
}

// BuildContactSearchRequest produces the query parameters for a contact
// search. Category is "athlete" or "parent".
func BuildContactSearchRequest(query, category string) url.Values {
	return url.Values{
		"search":    {query},
		"searchfor": {category},
	}
}

// BuildAssignmentModalRequest produces the query parameters for the
// assignment modal fetch.
func BuildAssignmentModalRequest(messageID, itemCode string) url.Values {
	return url.Values{
		"message_id": {StripMessageIDPrefix(messageID)},
		"itemcode":   {itemCode},
	}
}

// BuildAssignmentDefaultsRequest produces the query parameters for the
// recommended stage/status lookup.
func BuildAssignmentDefaultsRequest(contactID string) url.Values {
	return url.Values{
		"contactid": {contactID},
	}
}

// BuildLoginForm produces the credential form for the login POST.
func BuildLoginForm(email, password, token string) url.Values {
	return url.Values{
		"email":    {email},
		"password": {password},
		"_token":   {token},
		"remember": {"on"},
	}
}
