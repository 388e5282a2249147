package service

import (
	"context"
	"fmt"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// RouteStoreInterface defines the route data access.
type RouteStoreInterface interface {
	Insert(ctx context.Context, route *model.Route) error
	GetByID(ctx context.Context, id int64) (*model.Route, error)
	List(ctx context.Context) ([]*model.Route, error)
}

// IndustryStoreInterface defines the industry taxonomy data access.
type IndustryStoreInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Industry, error)
	List(ctx context.Context) ([]*model.Industry, error)
	ListSubcategories(ctx context.Context, industryID int64) ([]*model.IndustrySubcategory, error)
}

// CatalogService serves the route and industry reference data bookings
// are made against.
type CatalogService struct {
	routes     RouteStoreInterface
	industries IndustryStoreInterface
}

// NewCatalogService creates a CatalogService with the given repositories.
func NewCatalogService(routes RouteStoreInterface, industries IndustryStoreInterface) *CatalogService {
	return &CatalogService{routes: routes, industries: industries}
}

// CreateRoute registers a new mail route, active by default.
func (s *CatalogService) CreateRoute(ctx context.Context, req *model.CreateRouteRequest) (*model.Route, error) {
	route := &model.Route{
		ZipCode:        req.ZipCode,
		Name:           req.Name,
		HouseholdCount: *req.HouseholdCount,
		Status:         model.RouteStatusActive,
	}
	if err := s.routes.Insert(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

// GetRoute retrieves a route.
// Returns ErrRouteNotFound if the route doesn't exist.
func (s *CatalogService) GetRoute(ctx context.Context, id int64) (*model.Route, error) {
	route, err := s.routes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}
	return route, nil
}

// ListRoutes returns the active routes.
func (s *CatalogService) ListRoutes(ctx context.Context) ([]*model.Route, error) {
	return s.routes.List(ctx)
}

// ListIndustries returns the industry taxonomy.
func (s *CatalogService) ListIndustries(ctx context.Context) ([]*model.Industry, error) {
	return s.industries.List(ctx)
}

// ListSubcategories returns an industry's subcategories.
// Returns ErrInvalidRequest if the industry doesn't exist.
func (s *CatalogService) ListSubcategories(ctx context.Context, industryID int64) ([]*model.IndustrySubcategory, error) {
	ind, err := s.industries.GetByID(ctx, industryID)
	if err != nil {
		return nil, fmt.Errorf("get industry: %w", err)
	}
	if ind == nil {
		return nil, fmt.Errorf("%w: unknown industry", ErrInvalidRequest)
	}
	return s.industries.ListSubcategories(ctx, industryID)
}
