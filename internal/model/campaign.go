package model

import "time"

// Campaign statuses form a forward-only workflow. The allowed order is
// planning -> booking_open -> booking_closed -> printed -> mailed -> completed.
const (
	CampaignStatusPlanning      = "planning"
	CampaignStatusBookingOpen   = "booking_open"
	CampaignStatusBookingClosed = "booking_closed"
	CampaignStatusPrinted       = "printed"
	CampaignStatusMailed        = "mailed"
	CampaignStatusCompleted     = "completed"
)

// Campaign represents one scheduled mailing cycle with its own slot
// inventory. BookedSlots and RevenueCents are derived counters kept
// consistent transactionally with bookings.
type Campaign struct {
	ID                       int64     `json:"id"`
	Name                     string    `json:"name"`
	MailDate                 time.Time `json:"mail_date"`
	PrintDeadline            time.Time `json:"print_deadline"`
	Status                   string    `json:"status"`
	TotalSlots               int       `json:"total_slots"`
	BookedSlots              int       `json:"booked_slots"`
	RevenueCents             int64     `json:"revenue_cents"`
	BaseSlotPriceCents       int64     `json:"base_slot_price_cents"`
	AdditionalSlotPriceCents int64     `json:"additional_slot_price_cents"`
	CreatedAt                time.Time `json:"-"`
}

// CreateCampaignRequest is the DTO for creating a campaign.
// PrintDeadline must precede MailDate; the service enforces the ordering.
type CreateCampaignRequest struct {
	Name                     string `json:"name" validate:"required,notblank,max=255"`
	MailDate                 string `json:"mail_date" validate:"required"`      // RFC 3339 date
	PrintDeadline            string `json:"print_deadline" validate:"required"` // RFC 3339 date
	TotalSlots               *int   `json:"total_slots" validate:"required,gte=1"`
	BaseSlotPriceCents       *int64 `json:"base_slot_price_cents" validate:"required,gte=0"`
	AdditionalSlotPriceCents *int64 `json:"additional_slot_price_cents" validate:"required,gte=0"`
}

// TransitionCampaignRequest is the DTO for advancing a campaign's status.
type TransitionCampaignRequest struct {
	Status string `json:"status" validate:"required,notblank"`
}
