package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// WaitlistServiceInterface defines the waitlist logic the handler
// depends on.
type WaitlistServiceInterface interface {
	Notify(ctx context.Context, req *model.NotifyWaitlistRequest) (*model.NotifyWaitlistResponse, error)
}

// WaitlistHandler handles the admin waitlist notify endpoint.
type WaitlistHandler struct {
	service   WaitlistServiceInterface
	validator *validator.Validate
}

// NewWaitlistHandler creates a new WaitlistHandler with the given service and validator.
func NewWaitlistHandler(svc WaitlistServiceInterface, v *validator.Validate) *WaitlistHandler {
	return &WaitlistHandler{service: svc, validator: v}
}

// Notify handles POST /api/waitlist/notify: marks the named entries as
// notified over the requested channels and returns the count sent.
func (h *WaitlistHandler) Notify(c *fiber.Ctx) error {
	var req model.NotifyWaitlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.Notify(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}
