package service

import (
	"fmt"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// PricingConfig carries the tunables the resolver needs. Prices are in
// cents.
type PricingConfig struct {
	DefaultBasePriceCents       int64
	DefaultAdditionalPriceCents int64
	LoyaltyDiscountCents        int64
}

// BasePrice computes the undiscounted price for quantity slots: the base
// slot price for the first slot plus the additional slot price for each
// slot beyond the first. Campaign prices of zero fall back to the
// configured global defaults.
func BasePrice(cfg PricingConfig, campaign *model.Campaign, quantity int) int64 {
	base := campaign.BaseSlotPriceCents
	if base == 0 {
		base = cfg.DefaultBasePriceCents
	}
	additional := campaign.AdditionalSlotPriceCents
	if additional == 0 {
		additional = cfg.DefaultAdditionalPriceCents
	}
	if quantity <= 0 {
		return 0
	}
	return base + additional*int64(quantity-1)
}

// ruleSpecificity ranks a rule's scope: user+campaign beats campaign-only
// beats user-only beats global.
func ruleSpecificity(r *model.PricingRule) int {
	switch {
	case r.CampaignID != nil && r.UserID != nil:
		return 3
	case r.CampaignID != nil:
		return 2
	case r.UserID != nil:
		return 1
	default:
		return 0
	}
}

// matchesScope reports whether the rule applies to the target campaign
// and user. A nil scope dimension matches everything.
func matchesScope(r *model.PricingRule, campaignID, userID int64) bool {
	if r.CampaignID != nil && *r.CampaignID != campaignID {
		return false
	}
	if r.UserID != nil && *r.UserID != userID {
		return false
	}
	return true
}

// SelectRule picks the winning rule among candidates for the given
// booking target. Candidates must be active; exhausted and out-of-scope
// rules are skipped here as well so callers can pass a broad list.
//
// The winner is chosen by a total order: highest priority first, then
// most specific scope, then most recently created. Returns nil when no
// rule applies.
func SelectRule(candidates []*model.PricingRule, campaignID, userID int64) *model.PricingRule {
	var best *model.PricingRule
	for _, r := range candidates {
		if r == nil || r.Status != model.RuleStatusActive || r.Exhausted() {
			continue
		}
		if !matchesScope(r, campaignID, userID) {
			continue
		}
		if best == nil {
			best = r
			continue
		}
		switch {
		case r.Priority != best.Priority:
			if r.Priority > best.Priority {
				best = r
			}
		case ruleSpecificity(r) != ruleSpecificity(best):
			if ruleSpecificity(r) > ruleSpecificity(best) {
				best = r
			}
		case r.CreatedAt.After(best.CreatedAt):
			best = r
		}
	}
	return best
}

// applyRule computes the discounted total for a base price. Returned
// discount is the amount taken off the base (zero for increases, which
// cannot happen: prices never go below zero and fixed_price replaces the
// base outright).
func applyRule(rule *model.PricingRule, basePrice int64, quantity int) (final, discount int64) {
	switch rule.RuleType {
	case model.RuleTypeFixedPrice:
		final = rule.Value * int64(quantity)
		if final < 0 {
			final = 0
		}
		discount = basePrice - final
		if discount < 0 {
			discount = 0
		}
	case model.RuleTypeDiscountAmount:
		discount = rule.Value
		if discount > basePrice {
			discount = basePrice
		}
		final = basePrice - discount
	case model.RuleTypeDiscountPercent:
		discount = basePrice * rule.Value / 100
		if discount > basePrice {
			discount = basePrice
		}
		final = basePrice - discount
	default:
		final = basePrice
	}
	return final, discount
}

// ComputePrice resolves the final amount for a candidate booking. It is
// pure: no side effects, so resolving twice before commit yields the
// same result. Rule usage accounting happens later, inside the booking
// transaction.
//
// An admin override (note mandatory, checked by the caller) wins
// outright and skips rule and loyalty application entirely. Otherwise
// the winning rule is applied, then one loyalty discount if the user has
// credits and no fixed_price rule replaced the base price.
func ComputePrice(cfg PricingConfig, campaign *model.Campaign, user *model.User,
	rules []*model.PricingRule, quantity int, override *int64) model.PriceBreakdown {

	base := BasePrice(cfg, campaign, quantity)

	if override != nil {
		return model.PriceBreakdown{
			BasePriceCents:   base,
			FinalAmountCents: *override,
			Discounts: []model.Discount{{
				Kind:        "override",
				Description: "admin price override",
				AmountCents: base - *override,
			}},
		}
	}

	breakdown := model.PriceBreakdown{
		BasePriceCents:   base,
		FinalAmountCents: base,
	}

	fixedApplied := false
	if rule := SelectRule(rules, campaign.ID, user.ID); rule != nil {
		final, discount := applyRule(rule, base, quantity)
		breakdown.FinalAmountCents = final
		breakdown.AppliedRuleID = &rule.ID
		breakdown.Discounts = append(breakdown.Discounts, model.Discount{
			Kind:        rule.RuleType,
			Description: fmt.Sprintf("pricing rule %q", rule.Name),
			AmountCents: discount,
		})
		fixedApplied = rule.RuleType == model.RuleTypeFixedPrice
	}

	if !fixedApplied && user.LoyaltyDiscountsAvailable > 0 {
		discount := cfg.LoyaltyDiscountCents
		if discount > breakdown.FinalAmountCents {
			discount = breakdown.FinalAmountCents
		}
		breakdown.FinalAmountCents -= discount
		breakdown.LoyaltyDiscountApplied = true
		breakdown.Discounts = append(breakdown.Discounts, model.Discount{
			Kind:        "loyalty",
			Description: "loyalty discount",
			AmountCents: discount,
		})
	}

	if breakdown.FinalAmountCents < 0 {
		breakdown.FinalAmountCents = 0
	}
	return breakdown
}
