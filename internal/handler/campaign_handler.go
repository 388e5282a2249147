package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// CampaignServiceInterface defines the campaign business logic the
// handler depends on.
type CampaignServiceInterface interface {
	Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error)
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
	List(ctx context.Context) ([]*model.Campaign, error)
	Transition(ctx context.Context, id int64, target string) (*model.Campaign, error)
}

// CampaignHandler handles admin HTTP requests for campaigns.
type CampaignHandler struct {
	service   CampaignServiceInterface
	validator *validator.Validate
}

// NewCampaignHandler creates a new CampaignHandler with the given service and validator.
func NewCampaignHandler(svc CampaignServiceInterface, v *validator.Validate) *CampaignHandler {
	return &CampaignHandler{service: svc, validator: v}
}

func campaignID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("invalid campaign id")
	}
	return int64(id), nil
}

// CreateCampaign handles POST /api/campaigns.
func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req model.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	campaign, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// GetCampaign handles GET /api/campaigns/:id.
func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := campaignID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	campaign, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(campaign)
}

// ListCampaigns handles GET /api/campaigns.
func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.service.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(campaigns)
}

// TransitionCampaign handles POST /api/campaigns/:id/status. Invalid
// targets are rejected with a message naming the allowed next states.
func (h *CampaignHandler) TransitionCampaign(c *fiber.Ctx) error {
	id, err := campaignID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var req model.TransitionCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	campaign, err := h.service.Transition(c.Context(), id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(campaign)
}
