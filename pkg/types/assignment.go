package types

import "time"

// OptionItem is a value/label pair from a dashboard select element.
type OptionItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AssignmentModal holds everything the assignment form needs, extracted from
// the per-thread modal page. FormToken is single-use: it must be submitted
// with the final assignment POST, and a stale token means the modal has to be
// re-fetched rather than retried.
type AssignmentModal struct {
	FormToken          string      `json:"form_token"`
	Owners             []OptionItem `json:"owners"`
	Stages             []OptionItem `json:"stages"`
	Statuses           []OptionItem `json:"video_statuses"`
	ContactSearchValue string      `json:"contact_search_value"`
	DefaultSearchFor   string      `json:"default_search_for"`
	ContactID          string      `json:"contact_task,omitempty"`
	MainID             string      `json:"athlete_main_id,omitempty"`
	MessageID          string      `json:"message_id"`
	DefaultOwner       *OptionItem `json:"default_owner,omitempty"`
	FetchedAt          time.Time   `json:"-"`
}

// AssignmentPayload is the typed input to the assignment submission.
type AssignmentPayload struct {
	MessageID  string `json:"message_id"`
	OwnerID    string `json:"owner_id"`
	ContactID  string `json:"contact_id"`
	MainID     string `json:"athlete_main_id"`
	ContactFor string `json:"contact_for"`
	Contact    string `json:"contact"`
	Stage      string `json:"stage"`
	Status     string `json:"status"`
	FormToken  string `json:"-"`
}

// AssignmentDefaults are the recommended stage/status for a contact. Either
// field may be empty; absence never blocks a submission.
type AssignmentDefaults struct {
	Stage  string `json:"stage,omitempty"`
	Status string `json:"status,omitempty"`
}
