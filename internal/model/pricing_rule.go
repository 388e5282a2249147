package model

import "time"

// Pricing rule types. Value is interpreted per type: a per-slot price in
// cents for fixed_price, cents off for discount_amount, a whole percent
// for discount_percent.
const (
	RuleTypeFixedPrice      = "fixed_price"
	RuleTypeDiscountAmount  = "discount_amount"
	RuleTypeDiscountPercent = "discount_percent"
)

// Pricing rule statuses.
const (
	RuleStatusActive   = "active"
	RuleStatusInactive = "inactive"
)

// PricingRule is a scoped, prioritized, usage-capped price modifier.
// Nil CampaignID/UserID means the rule is global on that dimension.
type PricingRule struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CampaignID *int64    `json:"campaign_id,omitempty"`
	UserID     *int64    `json:"user_id,omitempty"`
	RuleType   string    `json:"rule_type"`
	Value      int64     `json:"value"`
	Priority   int       `json:"priority"`
	UsageLimit *int      `json:"usage_limit,omitempty"`
	UsageCount int       `json:"usage_count"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Exhausted reports whether the rule's usage limit has been reached.
// Rules without a limit never exhaust.
func (r *PricingRule) Exhausted() bool {
	return r.UsageLimit != nil && r.UsageCount >= *r.UsageLimit
}

// PricingRuleApplication records one use of a rule by a booking. Rows
// are immutable and double as the usage-limit audit trail.
type PricingRuleApplication struct {
	ID            int64     `json:"id"`
	RuleID        int64     `json:"rule_id"`
	BookingID     int64     `json:"booking_id"`
	UserID        int64     `json:"user_id"`
	DiscountCents int64     `json:"discount_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// Discount is one line of a price breakdown.
type Discount struct {
	Kind        string `json:"kind"` // rule type or "loyalty" or "override"
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
}

// PriceBreakdown is the pricing resolver's output for one booking.
type PriceBreakdown struct {
	BasePriceCents         int64      `json:"base_price_cents"`
	Discounts              []Discount `json:"discounts"`
	FinalAmountCents       int64      `json:"final_amount_cents"`
	AppliedRuleID          *int64     `json:"applied_rule_id,omitempty"`
	LoyaltyDiscountApplied bool       `json:"loyalty_discount_applied"`
}

// CreatePricingRuleRequest is the DTO for creating a pricing rule.
type CreatePricingRuleRequest struct {
	Name       string `json:"name" validate:"required,notblank,max=255"`
	CampaignID *int64 `json:"campaign_id" validate:"omitempty,gt=0"`
	UserID     *int64 `json:"user_id" validate:"omitempty,gt=0"`
	RuleType   string `json:"rule_type" validate:"required,oneof=fixed_price discount_amount discount_percent"`
	Value      *int64 `json:"value" validate:"required,gte=0"`
	Priority   *int   `json:"priority" validate:"required,gte=0"`
	UsageLimit *int   `json:"usage_limit" validate:"omitempty,gte=1"`
}
