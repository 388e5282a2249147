package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// CatalogServiceInterface defines the reference data operations the
// handler depends on.
type CatalogServiceInterface interface {
	CreateRoute(ctx context.Context, req *model.CreateRouteRequest) (*model.Route, error)
	GetRoute(ctx context.Context, id int64) (*model.Route, error)
	ListRoutes(ctx context.Context) ([]*model.Route, error)
	ListIndustries(ctx context.Context) ([]*model.Industry, error)
	ListSubcategories(ctx context.Context, industryID int64) ([]*model.IndustrySubcategory, error)
}

// CatalogHandler handles route and industry reference data endpoints.
type CatalogHandler struct {
	service   CatalogServiceInterface
	validator *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler with the given service and validator.
func NewCatalogHandler(svc CatalogServiceInterface, v *validator.Validate) *CatalogHandler {
	return &CatalogHandler{service: svc, validator: v}
}

// CreateRoute handles POST /api/routes (admin).
func (h *CatalogHandler) CreateRoute(c *fiber.Ctx) error {
	var req model.CreateRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	route, err := h.service.CreateRoute(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(route)
}

// GetRoute handles GET /api/routes/:id.
func (h *CatalogHandler) GetRoute(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid route id"})
	}
	route, err := h.service.GetRoute(c.Context(), int64(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(route)
}

// ListRoutes handles GET /api/routes.
func (h *CatalogHandler) ListRoutes(c *fiber.Ctx) error {
	routes, err := h.service.ListRoutes(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(routes)
}

// ListIndustries handles GET /api/industries.
func (h *CatalogHandler) ListIndustries(c *fiber.Ctx) error {
	industries, err := h.service.ListIndustries(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(industries)
}

// ListSubcategories handles GET /api/industries/:id/subcategories.
func (h *CatalogHandler) ListSubcategories(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid industry id"})
	}
	subs, err := h.service.ListSubcategories(c.Context(), int64(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(subs)
}
