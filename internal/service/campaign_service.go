package service

import (
	"context"
	"fmt"
	"time"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// CampaignStoreInterface defines the campaign data access for admin
// operations.
type CampaignStoreInterface interface {
	Insert(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context) ([]*model.Campaign, error)
}

// CampaignService provides admin operations on campaigns.
type CampaignService struct {
	repo CampaignStoreInterface
}

// NewCampaignService creates a CampaignService with the given repository.
func NewCampaignService(repo CampaignStoreInterface) *CampaignService {
	return &CampaignService{repo: repo}
}

// Create validates and creates a campaign in planning state.
// The print deadline must precede the mail date.
func (s *CampaignService) Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	if req == nil || req.TotalSlots == nil || req.BaseSlotPriceCents == nil || req.AdditionalSlotPriceCents == nil {
		return nil, ErrInvalidRequest
	}

	mailDate, err := time.Parse(time.RFC3339, req.MailDate)
	if err != nil {
		return nil, fmt.Errorf("%w: mail_date must be RFC 3339", ErrInvalidRequest)
	}
	printDeadline, err := time.Parse(time.RFC3339, req.PrintDeadline)
	if err != nil {
		return nil, fmt.Errorf("%w: print_deadline must be RFC 3339", ErrInvalidRequest)
	}
	if !printDeadline.Before(mailDate) {
		return nil, fmt.Errorf("%w: print deadline must precede mail date", ErrInvalidRequest)
	}

	campaign := &model.Campaign{
		Name:                     req.Name,
		MailDate:                 mailDate,
		PrintDeadline:            printDeadline,
		Status:                   model.CampaignStatusPlanning,
		TotalSlots:               *req.TotalSlots,
		BaseSlotPriceCents:       *req.BaseSlotPriceCents,
		AdditionalSlotPriceCents: *req.AdditionalSlotPriceCents,
	}
	if err := s.repo.Insert(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// GetByID retrieves a campaign.
// Returns ErrCampaignNotFound if the campaign doesn't exist.
func (s *CampaignService) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// List returns all campaigns.
func (s *CampaignService) List(ctx context.Context) ([]*model.Campaign, error) {
	return s.repo.List(ctx)
}

// Transition advances a campaign's status. Targets outside the
// forward-only workflow are rejected with ErrInvalidTransition naming
// the allowed next states.
func (s *CampaignService) Transition(ctx context.Context, id int64, target string) (*model.Campaign, error) {
	campaign, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateCampaignTransition(campaign.Status, target); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	campaign.Status = target
	return campaign, nil
}
