package model

import "time"

// Waitlist entry statuses. Conversion to a booking is a separate
// customer action; notify never auto-converts.
const (
	WaitlistStatusActive    = "active"
	WaitlistStatusNotified  = "notified"
	WaitlistStatusConverted = "converted"
)

// Notification channels for waitlist notifies.
const (
	ChannelEmail = "email"
	ChannelInApp = "in_app"
)

// WaitlistEntry is a customer's standing request for capacity on a
// (campaign, route, industry) combination that was full at request time.
type WaitlistEntry struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	CampaignID       int64      `json:"campaign_id"`
	RouteID          int64      `json:"route_id"`
	IndustryID       int64      `json:"industry_id"`
	SubcategoryID    *int64     `json:"subcategory_id,omitempty"`
	Quantity         int        `json:"quantity"`
	Status           string     `json:"status"`
	NotifiedCount    int        `json:"notified_count"`
	LastNotifiedAt   *time.Time `json:"last_notified_at,omitempty"`
	NotifiedChannels *string    `json:"notified_channels,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NotifyWaitlistRequest is the admin DTO for bulk-notifying entries.
type NotifyWaitlistRequest struct {
	EntryIDs []int64 `json:"entry_ids" validate:"required,min=1,dive,gt=0"`
	Message  string  `json:"message" validate:"required,notblank,max=1000"`
	Email    bool    `json:"email"`
	InApp    bool    `json:"in_app"`
}

// NotifyWaitlistResponse reports how many entries were notified.
type NotifyWaitlistResponse struct {
	NotifiedCount int `json:"notified_count"`
}
