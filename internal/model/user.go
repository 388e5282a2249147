package model

import "time"

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Referral statuses. A referral becomes credited once the referred user
// completes a qualifying (paid) booking.
const (
	ReferralStatusNone     = "none"
	ReferralStatusPending  = "pending"
	ReferralStatusCredited = "credited"
)

// User represents a customer or admin account. Loyalty counters accrue
// per calendar year; LoyaltyYearReset records the year the counters were
// last zeroed so a stale row can be reset lazily on first use.
type User struct {
	ID                        int64     `json:"id"`
	Email                     string    `json:"email"`
	Name                      string    `json:"name"`
	Role                      string    `json:"role"`
	LoyaltySlotsEarned        int       `json:"loyalty_slots_earned"`
	LoyaltyDiscountsAvailable int       `json:"loyalty_discounts_available"`
	LoyaltyYearReset          int       `json:"loyalty_year_reset"`
	ReferralCode              string    `json:"referral_code"`
	ReferredBy                *int64    `json:"referred_by,omitempty"`
	ReferralStatus            string    `json:"referral_status"`
	CreatedAt                 time.Time `json:"-"`
}

// RegisterUserRequest is the payload for creating a customer account.
type RegisterUserRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Name         string  `json:"name" validate:"required,notblank,max=200"`
	ReferralCode *string `json:"referral_code,omitempty"`
}
