package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// ArtworkServiceInterface defines the artwork and design operations the
// handler depends on.
type ArtworkServiceInterface interface {
	SubmitArtwork(ctx context.Context, id int64, fileName string) (*model.Booking, error)
	ReviewArtwork(ctx context.Context, id int64, decision string, reason *string) (*model.Booking, error)
	SubmitDesign(ctx context.Context, id int64, fileName string) (*model.DesignRevision, error)
	ReviewDesign(ctx context.Context, id int64, decision string, feedback *string) (*model.Booking, error)
}

// ArtworkHandler handles artwork upload/review and design revision
// endpoints. Uploaded files themselves go to blob storage upstream of
// this service; only the file name is bound to the booking here.
type ArtworkHandler struct {
	service   ArtworkServiceInterface
	validator *validator.Validate
}

// NewArtworkHandler creates a new ArtworkHandler with the given service and validator.
func NewArtworkHandler(svc ArtworkServiceInterface, v *validator.Validate) *ArtworkHandler {
	return &ArtworkHandler{service: svc, validator: v}
}

// SubmitArtwork handles POST /api/bookings/:id/artwork (multipart).
func (h *ArtworkHandler) SubmitArtwork(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: file is required"})
	}

	booking, err := h.service.SubmitArtwork(c.Context(), id, file.Filename)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(booking)
}

// ReviewArtwork handles POST /api/bookings/:id/artwork/review (admin).
func (h *ArtworkHandler) ReviewArtwork(c *fiber.Ctx) error {
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

	booking, err := h.service.ReviewArtwork(c.Context(), id, req.Decision, req.Note)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(booking)
}

// SubmitDesign handles POST /api/bookings/:id/design/submit (multipart).
func (h *ArtworkHandler) SubmitDesign(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: file is required"})
	}

	rev, err := h.service.SubmitDesign(c.Context(), id, file.Filename)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rev)
}

// ReviewDesign handles POST /api/bookings/:id/design/review, the
// customer's sign-off on the current design revision.
func (h *ArtworkHandler) ReviewDesign(c *fiber.Ctx) error {
	id, err := bookingID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var req model.DesignReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	booking, err := h.service.ReviewDesign(c.Context(), id, req.Decision, req.Feedback)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(booking)
}
