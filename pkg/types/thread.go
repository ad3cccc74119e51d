package types

import "time"

// InboxThread is a normalized snapshot of one thread from the video team inbox
// listing. Threads are immutable once parsed; only the normalized Date and the
// MainID may be backfilled after the fact.
type InboxThread struct {
	ID          string       `json:"id"`
	ItemCode    string       `json:"item_code"`
	ContactID   string       `json:"contact_id"`
	MainID      string       `json:"athlete_main_id,omitempty"`
	SenderName  string       `json:"sender_name"`
	SenderEmail string       `json:"sender_email"`
	Subject     string       `json:"subject"`
	Preview     string       `json:"preview"`
	Timestamp   string       `json:"timestamp"`
	Date        *time.Time   `json:"date,omitempty"`
	CanAssign   bool         `json:"can_assign"`
	Unread      bool         `json:"is_unread"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file attached to an inbox thread.
type Attachment struct {
	FileName     string `json:"file_name"`
	URL          string `json:"url"`
	Expiry       string `json:"expiry,omitempty"`
	Downloadable bool   `json:"downloadable"`
}

// MessageDetail is the full cleaned body of a single inbox message.
type MessageDetail struct {
	MessageID string `json:"message_id"`
	ItemCode  string `json:"item_code"`
	Subject   string `json:"subject"`
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Contact is a person record (athlete or parent) returned by the dashboard's
// contact search. Contacts are ephemeral; they are never persisted.
type Contact struct {
	ContactID string `json:"contact_id"`
	MainID    string `json:"athlete_main_id,omitempty"`
	Name      string `json:"name"`
	Sport     string `json:"sport,omitempty"`
	GradYear  string `json:"grad_year,omitempty"`
	State     string `json:"state,omitempty"`
	Ranking   string `json:"ranking,omitempty"`
	Email     string `json:"email,omitempty"`
}
