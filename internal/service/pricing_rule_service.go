package service

import (
	"context"
	"fmt"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// PricingRuleStoreInterface defines the rule data access for admin CRUD.
type PricingRuleStoreInterface interface {
	Insert(ctx context.Context, rule *model.PricingRule) error
	List(ctx context.Context) ([]*model.PricingRule, error)
	Deactivate(ctx context.Context, id int64) error
	ListApplications(ctx context.Context, ruleID int64) ([]*model.PricingRuleApplication, error)
}

// PricingRuleService provides admin operations on pricing rules. Rule
// application itself happens inside the booking transaction; here the
// audit trail is read-only.
type PricingRuleService struct {
	repo PricingRuleStoreInterface
}

// NewPricingRuleService creates a PricingRuleService with the given repository.
func NewPricingRuleService(repo PricingRuleStoreInterface) *PricingRuleService {
	return &PricingRuleService{repo: repo}
}

// Create validates and creates an active pricing rule.
func (s *PricingRuleService) Create(ctx context.Context, req *model.CreatePricingRuleRequest) (*model.PricingRule, error) {
	if req == nil || req.Value == nil || req.Priority == nil {
		return nil, ErrInvalidRequest
	}
	if req.RuleType == model.RuleTypeDiscountPercent && *req.Value > 100 {
		return nil, fmt.Errorf("%w: percent discount cannot exceed 100", ErrInvalidRequest)
	}

	rule := &model.PricingRule{
		Name:       req.Name,
		CampaignID: req.CampaignID,
		UserID:     req.UserID,
		RuleType:   req.RuleType,
		Value:      *req.Value,
		Priority:   *req.Priority,
		UsageLimit: req.UsageLimit,
		Status:     model.RuleStatusActive,
	}
	if err := s.repo.Insert(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// List returns all rules.
func (s *PricingRuleService) List(ctx context.Context) ([]*model.PricingRule, error) {
	return s.repo.List(ctx)
}

// Deactivate retires a rule. Existing applications stay on record.
func (s *PricingRuleService) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}

// Applications returns the immutable audit trail for a rule.
func (s *PricingRuleService) Applications(ctx context.Context, ruleID int64) ([]*model.PricingRuleApplication, error) {
	return s.repo.ListApplications(ctx, ruleID)
}
