package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// IndustryRepository provides data access for the industry taxonomy using pgx.
type IndustryRepository struct {
	pool PoolInterface
}

// NewIndustryRepository creates a new IndustryRepository with the given pool.
func NewIndustryRepository(pool *pgxpool.Pool) *IndustryRepository {
	return &IndustryRepository{pool: pool}
}

// NewIndustryRepositoryWithPool creates an IndustryRepository with a custom
// pool interface. Primarily used for testing.
func NewIndustryRepositoryWithPool(pool PoolInterface) *IndustryRepository {
	return &IndustryRepository{pool: pool}
}

// GetByID retrieves an industry by id.
// Returns nil, nil if the industry is not found (service layer handles this).
func (r *IndustryRepository) GetByID(ctx context.Context, id int64) (*model.Industry, error) {
	var ind model.Industry
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, status FROM industries WHERE id = $1`, id,
	).Scan(&ind.ID, &ind.Name, &ind.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get industry %d: %w", id, err)
	}
	return &ind, nil
}

// List returns all industries ordered by name.
func (r *IndustryRepository) List(ctx context.Context) ([]*model.Industry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, status FROM industries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list industries: %w", err)
	}
	defer rows.Close()

	industries := []*model.Industry{}
	for rows.Next() {
		var ind model.Industry
		if err := rows.Scan(&ind.ID, &ind.Name, &ind.Status); err != nil {
			return nil, fmt.Errorf("scan industry: %w", err)
		}
		industries = append(industries, &ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate industries: %w", err)
	}
	return industries, nil
}

// ListSubcategories returns an industry's subcategories ordered by sort_order.
func (r *IndustryRepository) ListSubcategories(ctx context.Context, industryID int64) ([]*model.IndustrySubcategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, industry_id, name, sort_order
		 FROM industry_subcategories WHERE industry_id = $1 ORDER BY sort_order`,
		industryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories for industry %d: %w", industryID, err)
	}
	defer rows.Close()

	subs := []*model.IndustrySubcategory{}
	for rows.Next() {
		var sc model.IndustrySubcategory
		if err := rows.Scan(&sc.ID, &sc.IndustryID, &sc.Name, &sc.SortOrder); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subcategories: %w", err)
	}
	return subs, nil
}
