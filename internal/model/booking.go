package model

import "time"

// Booking statuses (overall axis).
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Approval statuses.
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// Artwork statuses.
const (
	ArtworkStatusPendingUpload = "pending_upload"
	ArtworkStatusUnderReview   = "under_review"
	ArtworkStatusApproved      = "approved"
	ArtworkStatusRejected      = "rejected"
)

// Design statuses.
const (
	DesignStatusPendingDesign    = "pending_design"
	DesignStatusPendingReview    = "pending_review"
	DesignStatusApproved         = "approved"
	DesignStatusChangesRequested = "changes_requested"
)

// Refund statuses computed at cancellation time.
const (
	RefundStatusNone    = "none"
	RefundStatusPartial = "partial"
	RefundStatusFull    = "full"
)

// MaxDesignRevisions caps how many times a customer may request changes
// to a design. After the cap the design must be approved.
const MaxDesignRevisions = 2

// Booking is the unit of slot consumption: it occupies Quantity slots on
// its (campaign, route) pair. Four status axes (approval, payment,
// artwork, design) progress independently; each has its own transition
// table in the service layer.
type Booking struct {
	ID                     int64      `json:"id"`
	UserID                 int64      `json:"user_id"`
	CampaignID             int64      `json:"campaign_id"`
	RouteID                int64      `json:"route_id"`
	IndustryID             int64      `json:"industry_id"`
	SubcategoryID          *int64     `json:"subcategory_id,omitempty"`
	Quantity               int        `json:"quantity"`
	AmountCents            int64      `json:"amount_cents"`
	BasePriceCents         int64      `json:"base_price_cents"`
	PriceOverrideCents     *int64     `json:"price_override_cents,omitempty"`
	PriceOverrideNote      *string    `json:"price_override_note,omitempty"`
	LoyaltyDiscountApplied bool       `json:"loyalty_discount_applied"`
	AppliedRuleID          *int64     `json:"applied_rule_id,omitempty"`
	Status                 string     `json:"status"`
	PaymentStatus          string     `json:"payment_status"`
	AmountPaidCents        int64      `json:"amount_paid_cents"`
	PaidAt                 *time.Time `json:"paid_at,omitempty"`
	ApprovalStatus         string     `json:"approval_status"`
	RejectionNote          *string    `json:"rejection_note,omitempty"`
	ArtworkStatus          string     `json:"artwork_status"`
	ArtworkFile            *string    `json:"artwork_file,omitempty"`
	ArtworkRejectionReason *string    `json:"artwork_rejection_reason,omitempty"`
	DesignStatus           string     `json:"design_status"`
	RevisionCount          int        `json:"revision_count"`
	CancelledAt            *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason     *string    `json:"cancellation_reason,omitempty"`
	RefundStatus           string     `json:"refund_status"`
	ContractAcceptedAt     *time.Time `json:"contract_accepted_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// CreateBookingRequest is the DTO for creating a booking. Quantity is
// bounded to at most four slots per booking.
type CreateBookingRequest struct {
	UserID             int64   `json:"user_id" validate:"required,gt=0"`
	CampaignID         int64   `json:"campaign_id" validate:"required,gt=0"`
	RouteID            int64   `json:"route_id" validate:"required,gt=0"`
	IndustryID         int64   `json:"industry_id" validate:"required,gt=0"`
	SubcategoryID      *int64  `json:"subcategory_id" validate:"omitempty,gt=0"`
	Quantity           *int    `json:"quantity" validate:"required,gte=1,lte=4"`
	ContractAccepted   bool    `json:"contract_accepted"`
	PriceOverrideCents *int64  `json:"price_override_cents" validate:"omitempty,gte=0"`
	PriceOverrideNote  *string `json:"price_override_note" validate:"omitempty,notblank,max=500"`
}

// BookingResponse wraps either a confirmed booking or the waitlist entry
// the request was diverted to. Waitlisted is the explicit flag callers
// check before reading either field.
type BookingResponse struct {
	Waitlisted bool            `json:"waitlisted"`
	Booking    *Booking        `json:"booking,omitempty"`
	Waitlist   *WaitlistEntry  `json:"waitlist_entry,omitempty"`
	Price      *PriceBreakdown `json:"price,omitempty"`
}

// CancelBookingRequest is the DTO for cancelling a booking.
type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

// ReviewRequest is the shared DTO for admin approval and artwork review
// decisions. Note is mandatory on rejection; the service enforces it.
type ReviewRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
}

// DesignReviewRequest is the DTO for the customer's design sign-off.
type DesignReviewRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=approved changes_requested"`
	Feedback *string `json:"feedback" validate:"omitempty,max=1000"`
}

// PaymentCallbackRequest is the DTO the payment gateway callback posts
// after a capture attempt.
type PaymentCallbackRequest struct {
	Status          string `json:"status" validate:"required,oneof=paid failed"`
	AmountPaidCents *int64 `json:"amount_paid_cents" validate:"omitempty,gte=0"`
	PaymentRef      string `json:"payment_ref" validate:"omitempty,max=255"`
}
