package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/service"
)

// BookingServiceInterface defines the booking business logic the handler
// depends on.
type BookingServiceInterface interface {
	Create(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingResponse, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) (*model.Booking, error)
	Review(ctx context.Context, id int64, decision string, note *string) (*model.Booking, error)
	RecordPayment(ctx context.Context, id int64, req *model.PaymentCallbackRequest) (*model.Booking, error)
}

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service   BookingServiceInterface
	validator *validator.Validate
}

// NewBookingHandler creates a new BookingHandler with the given service and validator.
func NewBookingHandler(svc BookingServiceInterface, v *validator.Validate) *BookingHandler {
	return &BookingHandler{service: svc, validator: v}
}

// bookingID parses the :id route param.
func bookingID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("invalid booking id")
	}
	return int64(id), nil
}

// serviceError maps sentinel service errors to HTTP responses. Unmapped
// errors fall through to a logged 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCampaignNotFound),
		errors.Is(err, service.ErrRouteNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrRuleNotFound),
		errors.Is(err, service.ErrWaitlistEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrNoteRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrBookingClosed),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrRuleConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRevisionLimitExceeded):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPaymentRequired):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// CreateBooking handles POST /api/bookings. The response carries either
// a confirmed booking or a waitlist entry with waitlisted=true.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req model.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	if resp.Waitlisted {
		// 202: the request was accepted onto the waitlist, not booked.
		return c.Status(fiber.StatusAccepted).JSON(resp)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	booking, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(booking)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var req model.CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	booking, err := h.service.Cancel(c.Context(), id, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(booking)
}

// ReviewBooking handles POST /api/bookings/:id/approval (admin).
func (h *BookingHandler) ReviewBooking(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var req model.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	booking, err := h.service.Review(c.Context(), id, req.Decision, req.Note)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(booking)
}

// PaymentCallback handles POST /api/bookings/:id/payment, posted by the
// payment gateway after a capture attempt.
func (h *BookingHandler) PaymentCallback(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var req model.PaymentCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	booking, err := h.service.RecordPayment(c.Context(), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(booking)
}
