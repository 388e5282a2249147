package model

import "time"

// Notification kinds.
const (
	NotificationWaitlistSlot   = "waitlist_slot_available"
	NotificationWaitlistNotice = "waitlist_notice"
)

// Notification is an in-app message stored for a user. Email delivery
// goes through the broker; this row is the in-app channel.
type Notification struct {
	ID        string     `json:"id"` // uuid
	UserID    int64      `json:"user_id"`
	Kind      string     `json:"kind"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
