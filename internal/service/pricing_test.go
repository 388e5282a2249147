package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

var testPricing = PricingConfig{
	DefaultBasePriceCents:       39900,
	DefaultAdditionalPriceCents: 29900,
	LoyaltyDiscountCents:        10000,
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func activeRule(id int64, name string, fn func(r *model.PricingRule)) *model.PricingRule {
	r := &model.PricingRule{
		ID:        id,
		Name:      name,
		RuleType:  model.RuleTypeDiscountAmount,
		Value:     5000,
		Status:    model.RuleStatusActive,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if fn != nil {
		fn(r)
	}
	return r
}

func TestBasePrice_FirstSlotPlusAdditional(t *testing.T) {
	campaign := &model.Campaign{BaseSlotPriceCents: 39900, AdditionalSlotPriceCents: 29900}

	assert.Equal(t, int64(39900), BasePrice(testPricing, campaign, 1))
	assert.Equal(t, int64(69800), BasePrice(testPricing, campaign, 2))
	assert.Equal(t, int64(129600), BasePrice(testPricing, campaign, 4))
}

func TestBasePrice_ZeroCampaignPricesFallBackToDefaults(t *testing.T) {
	campaign := &model.Campaign{}

	assert.Equal(t, int64(39900), BasePrice(testPricing, campaign, 1))
	assert.Equal(t, int64(69800), BasePrice(testPricing, campaign, 2))
}

func TestSelectRule_HigherPriorityBeatsMoreSpecificScope(t *testing.T) {
	// A campaign-scoped rule loses to a higher-priority global rule even
	// though its scope is more specific.
	campaignScoped := activeRule(1, "campaign promo", func(r *model.PricingRule) {
		r.CampaignID = int64Ptr(7)
		r.Priority = 1
	})
	global := activeRule(2, "site-wide promo", func(r *model.PricingRule) {
		r.Priority = 5
	})

	winner := SelectRule([]*model.PricingRule{campaignScoped, global}, 7, 42)
	require.NotNil(t, winner)
	assert.Equal(t, int64(2), winner.ID)
}

func TestSelectRule_SpecificityBreaksPriorityTies(t *testing.T) {
	global := activeRule(1, "global", func(r *model.PricingRule) { r.Priority = 3 })
	userScoped := activeRule(2, "user deal", func(r *model.PricingRule) {
		r.Priority = 3
		r.UserID = int64Ptr(42)
	})
	both := activeRule(3, "user+campaign deal", func(r *model.PricingRule) {
		r.Priority = 3
		r.UserID = int64Ptr(42)
		r.CampaignID = int64Ptr(7)
	})

	winner := SelectRule([]*model.PricingRule{global, userScoped, both}, 7, 42)
	require.NotNil(t, winner)
	assert.Equal(t, int64(3), winner.ID, "user+campaign scope should be most specific")
}

func TestSelectRule_RecencyBreaksFullTies(t *testing.T) {
	older := activeRule(1, "older", func(r *model.PricingRule) {
		r.Priority = 2
		r.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	newer := activeRule(2, "newer", func(r *model.PricingRule) {
		r.Priority = 2
		r.CreatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	})

	winner := SelectRule([]*model.PricingRule{older, newer}, 7, 42)
	require.NotNil(t, winner)
	assert.Equal(t, int64(2), winner.ID)

	// Order of candidates must not matter.
	winner = SelectRule([]*model.PricingRule{newer, older}, 7, 42)
	require.NotNil(t, winner)
	assert.Equal(t, int64(2), winner.ID)
}

func TestSelectRule_SkipsExhaustedInactiveAndOutOfScope(t *testing.T) {
	exhausted := activeRule(1, "exhausted", func(r *model.PricingRule) {
		r.Priority = 9
		r.UsageLimit = intPtr(10)
		r.UsageCount = 10
	})
	inactive := activeRule(2, "inactive", func(r *model.PricingRule) {
		r.Priority = 9
		r.Status = model.RuleStatusInactive
	})
	otherCampaign := activeRule(3, "other campaign", func(r *model.PricingRule) {
		r.Priority = 9
		r.CampaignID = int64Ptr(99)
	})
	otherUser := activeRule(4, "other user", func(r *model.PricingRule) {
		r.Priority = 9
		r.UserID = int64Ptr(99)
	})
	eligible := activeRule(5, "eligible", nil)

	winner := SelectRule([]*model.PricingRule{exhausted, inactive, otherCampaign, otherUser, eligible}, 7, 42)
	require.NotNil(t, winner)
	assert.Equal(t, int64(5), winner.ID)
}

func TestSelectRule_NoCandidates(t *testing.T) {
	assert.Nil(t, SelectRule(nil, 7, 42))
	assert.Nil(t, SelectRule([]*model.PricingRule{}, 7, 42))
}

func TestComputePrice_FixedPriceReplacesBasePerSlot(t *testing.T) {
	campaign := &model.Campaign{ID: 7, BaseSlotPriceCents: 39900, AdditionalSlotPriceCents: 29900}
	user := &model.User{ID: 42}
	rule := activeRule(1, "flat deal", func(r *model.PricingRule) {
		r.RuleType = model.RuleTypeFixedPrice
		r.Value = 25000
	})

	breakdown := ComputePrice(testPricing, campaign, user, []*model.PricingRule{rule}, 2, nil)

	assert.Equal(t, int64(69800), breakdown.BasePriceCents)
	assert.Equal(t, int64(50000), breakdown.FinalAmountCents, "fixed price applies per slot")
	require.NotNil(t, breakdown.AppliedRuleID)
	assert.Equal(t, int64(1), *breakdown.AppliedRuleID)
}

func TestComputePrice_DiscountAmountFloorsAtZero(t *testing.T) {
	campaign := &model.Campaign{ID: 7, BaseSlotPriceCents: 10000, AdditionalSlotPriceCents: 10000}
	user := &model.User{ID: 42}
	rule := activeRule(1, "huge discount", func(r *model.PricingRule) {
		r.RuleType = model.RuleTypeDiscountAmount
		r.Value = 999999
	})

	breakdown := ComputePrice(testPricing, campaign, user, []*model.PricingRule{rule}, 1, nil)

	assert.Equal(t, int64(0), breakdown.FinalAmountCents, "price never goes below zero")
}

func TestComputePrice_DiscountPercent(t *testing.T) {
	campaign := &model.Campaign{ID: 7, BaseSlotPriceCents: 40000, AdditionalSlotPriceCents: 30000}
	user := &model.User{ID: 42}
	rule := activeRule(1, "25 off", func(r *model.PricingRule) {
		r.RuleType = model.RuleTypeDiscountPercent
		r.Value = 25
	})

	breakdown := ComputePrice(testPricing, campaign, user, []*model.PricingRule{rule}, 2, nil)

	assert.Equal(t, int64(70000), breakdown.BasePriceCents)
	assert.Equal(t, int64(52500), breakdown.FinalAmountCents)
}

func TestComputePrice_LoyaltyStacksOnDiscountRules(t *testing.T) {
	campaign := &model.Campaign{ID: 7, BaseSlotPriceCents: 40000, AdditionalSlotPriceCents: 30000}
	user := &model.User{ID: 42, LoyaltyDiscountsAvailable: 1}
	rule := activeRule(1, "5000 off", func(r *model.PricingRule) {
		r.RuleType = model.RuleTypeDiscountAmount
		r.Value = 5000
	})

	breakdown := ComputePrice(testPricing, campaign, user, []*model.PricingRule{rule}, 1, nil)

	assert.Equal(t, int64(25000), breakdown.FinalAmountCents, "rule then loyalty")
	assert.True(t, breakdown.LoyaltyDiscountApplied)
	assert.Len(t, breakdown.Discounts, 2)
}

func TestComputePrice_LoyaltyDoesNotStackOnFixedPrice(t *testing.T) {
	campaign := &model.Campaign{ID: 7, BaseSlotPriceCents: 40000, AdditionalSlotPriceCents: 30000}
	user := &model.User{ID: 42, LoyaltyDiscountsAvailable: 1}
	rule := activeRule(1, "flat deal", func(r *model.PricingRule) {
		r.RuleType = model.RuleTypeFixedPrice
		r.Value = 30000
	})

	breakdown := ComputePrice(testPricing, campaign, user, []*model.PricingRule{rule}, 1, nil)

	assert.Equal(t, int64(30000), breakdown.FinalAmountCents)
	assert.False(t, breakdown.LoyaltyDiscountApplied, "fixed price replaces the base outright")
}

func TestComputePrice_LoyaltyAloneWithoutRules(t *testing.T) {
	campaign := &model.Campaign{ID: 7, BaseSlotPriceCents: 39900, AdditionalSlotPriceCents: 29900}
	user := &model.User{ID: 42, LoyaltyDiscountsAvailable: 2}

	breakdown := ComputePrice(testPricing, campaign, user, nil, 1, nil)

	assert.Equal(t, int64(29900), breakdown.FinalAmountCents)
	assert.True(t, breakdown.LoyaltyDiscountApplied, "exactly one credit is consumed per booking")
	assert.Len(t, breakdown.Discounts, 1)
}

func TestComputePrice_OverrideWinsOutright(t *testing.T) {
	campaign := &model.Campaign{ID: 7, BaseSlotPriceCents: 39900, AdditionalSlotPriceCents: 29900}
	user := &model.User{ID: 42, LoyaltyDiscountsAvailable: 1}
	rule := activeRule(1, "would apply", func(r *model.PricingRule) {
		r.RuleType = model.RuleTypeDiscountAmount
		r.Value = 5000
	})

	breakdown := ComputePrice(testPricing, campaign, user, []*model.PricingRule{rule}, 1, int64Ptr(12300))

	assert.Equal(t, int64(12300), breakdown.FinalAmountCents)
	assert.Nil(t, breakdown.AppliedRuleID, "override skips rule application")
	assert.False(t, breakdown.LoyaltyDiscountApplied, "override skips loyalty")
}

func TestComputePrice_IsPure(t *testing.T) {
	campaign := &model.Campaign{ID: 7, BaseSlotPriceCents: 40000, AdditionalSlotPriceCents: 30000}
	user := &model.User{ID: 42, LoyaltyDiscountsAvailable: 1}
	rules := []*model.PricingRule{activeRule(1, "deal", nil)}

	first := ComputePrice(testPricing, campaign, user, rules, 2, nil)
	second := ComputePrice(testPricing, campaign, user, rules, 2, nil)

	assert.Equal(t, first, second, "resolving twice before commit must be identical")
	assert.Equal(t, 1, user.LoyaltyDiscountsAvailable, "resolver must not mutate the user")
	assert.Equal(t, 0, rules[0].UsageCount, "resolver must not mutate the rule")
}
