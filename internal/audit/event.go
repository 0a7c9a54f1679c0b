package audit

import "time"

// EventType names an audited admin action.
type EventType string

const (
	EventAuthVerified      EventType = "auth.verified"
	EventAuthRejected      EventType = "auth.rejected"
	EventConfigUpdated     EventType = "config.updated"
	EventConfigWriteFailed EventType = "config.write_failed"
)

// Event is one audited action. It records metadata about the request and the
// document digest, never the document itself.
type Event struct {
	ID            int64     `json:"id"`
	EventID       string    `json:"event_id"`
	Type          EventType `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`
	Outcome       string    `json:"outcome"`
	RemoteAddr    string    `json:"remote_addr,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
	ContentSHA256 string    `json:"content_sha256,omitempty"`
	SizeBytes     int64     `json:"size_bytes,omitempty"`
}
