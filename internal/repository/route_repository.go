package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/service"
)

// RouteRepository provides data access for mail routes using pgx.
type RouteRepository struct {
	pool PoolInterface
}

// NewRouteRepository creates a new RouteRepository with the given pool.
func NewRouteRepository(pool *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{pool: pool}
}

// NewRouteRepositoryWithPool creates a RouteRepository with a custom pool
// interface. Primarily used for testing.
func NewRouteRepositoryWithPool(pool PoolInterface) *RouteRepository {
	return &RouteRepository{pool: pool}
}

// Insert inserts a new route. Returns service.ErrInvalidRequest when the
// zip code is already registered.
func (r *RouteRepository) Insert(ctx context.Context, route *model.Route) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO routes (zip_code, name, household_count, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		route.ZipCode, route.Name, route.HouseholdCount, route.Status,
	).Scan(&route.ID, &route.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrInvalidRequest
		}
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

// GetByID retrieves a route by id.
// Returns nil, nil if the route is not found (service layer handles this).
func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*model.Route, error) {
	var route model.Route
	err := r.pool.QueryRow(ctx,
		`SELECT id, zip_code, name, household_count, status, created_at
		 FROM routes WHERE id = $1`, id,
	).Scan(&route.ID, &route.ZipCode, &route.Name, &route.HouseholdCount, &route.Status, &route.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get route %d: %w", id, err)
	}
	return &route, nil
}

// List returns all active routes ordered by zip code.
func (r *RouteRepository) List(ctx context.Context) ([]*model.Route, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, zip_code, name, household_count, status, created_at
		 FROM routes WHERE status = 'active' ORDER BY zip_code`)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	routes := []*model.Route{}
	for rows.Next() {
		var route model.Route
		if err := rows.Scan(&route.ID, &route.ZipCode, &route.Name, &route.HouseholdCount, &route.Status, &route.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, &route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}
	return routes, nil
}
