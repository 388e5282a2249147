package model

import "time"

// Design revision statuses.
const (
	RevisionStatusPendingReview    = "pending_review"
	RevisionStatusApproved         = "approved"
	RevisionStatusChangesRequested = "changes_requested"
)

// DesignRevision is one artwork iteration tied to a booking.
// RevisionNumber is strictly increasing per booking.
type DesignRevision struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"booking_id"`
	RevisionNumber int       `json:"revision_number"`
	FileName       string    `json:"file_name"`
	Status         string    `json:"status"`
	Feedback       *string   `json:"feedback,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
