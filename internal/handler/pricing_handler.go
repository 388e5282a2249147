package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// PricingRuleServiceInterface defines the pricing rule admin logic the
// handler depends on.
type PricingRuleServiceInterface interface {
	Create(ctx context.Context, req *model.CreatePricingRuleRequest) (*model.PricingRule, error)
	List(ctx context.Context) ([]*model.PricingRule, error)
	Deactivate(ctx context.Context, id int64) error
	Applications(ctx context.Context, ruleID int64) ([]*model.PricingRuleApplication, error)
}

// PricingHandler handles admin HTTP requests for pricing rules.
type PricingHandler struct {
	service   PricingRuleServiceInterface
	validator *validator.Validate
}

// NewPricingHandler creates a new PricingHandler with the given service and validator.
func NewPricingHandler(svc PricingRuleServiceInterface, v *validator.Validate) *PricingHandler {
	return &PricingHandler{service: svc, validator: v}
}

func ruleID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("invalid rule id")
	}
	return int64(id), nil
}

// CreateRule handles POST /api/pricing-rules.
func (h *PricingHandler) CreateRule(c *fiber.Ctx) error {
	var req model.CreatePricingRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	rule, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// ListRules handles GET /api/pricing-rules.
func (h *PricingHandler) ListRules(c *fiber.Ctx) error {
	rules, err := h.service.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(rules)
}

// DeactivateRule handles POST /api/pricing-rules/:id/deactivate.
func (h *PricingHandler) DeactivateRule(c *fiber.Ctx) error {
	id, err := ruleID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Deactivate(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListApplications handles GET /api/pricing-rules/:id/applications, the
// read-only audit trail of a rule's uses.
func (h *PricingHandler) ListApplications(c *fiber.Ctx) error {
	id, err := ruleID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	apps, err := h.service.Applications(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(apps)
}
