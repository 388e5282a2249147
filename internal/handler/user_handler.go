package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// UserServiceInterface defines the account operations the handler
// depends on.
type UserServiceInterface interface {
	Register(ctx context.Context, email, name string, referralCode *string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Bookings(ctx context.Context, userID int64) ([]*model.Booking, error)
	Notifications(ctx context.Context, userID int64) ([]*model.Notification, error)
}

// UserHandler handles account registration and per-user listings.
type UserHandler struct {
	service   UserServiceInterface
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given service and validator.
func NewUserHandler(svc UserServiceInterface, v *validator.Validate) *UserHandler {
	return &UserHandler{service: svc, validator: v}
}

func userID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("invalid user id")
	}
	return int64(id), nil
}

// RegisterUser handles POST /api/users.
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var req model.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	user, err := h.service.Register(c.Context(), req.Email, req.Name, req.ReferralCode)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /api/users/:id.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	user, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

// ListUserBookings handles GET /api/users/:id/bookings.
func (h *UserHandler) ListUserBookings(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	bookings, err := h.service.Bookings(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(bookings)
}

// ListUserNotifications handles GET /api/users/:id/notifications, the
// unread in-app inbox.
func (h *UserHandler) ListUserNotifications(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	notes, err := h.service.Notifications(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(notes)
}
