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
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/pkg/database"
)

// UserRepository provides data access for users using pgx.
type UserRepository struct {
	pool PoolInterface
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a UserRepository with a custom pool
// interface. Primarily used for testing.
func NewUserRepositoryWithPool(pool PoolInterface) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, name, role, loyalty_slots_earned, loyalty_discounts_available,
	loyalty_year_reset, referral_code, referred_by, referral_status, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.LoyaltySlotsEarned, &u.LoyaltyDiscountsAvailable,
		&u.LoyaltyYearReset, &u.ReferralCode, &u.ReferredBy, &u.ReferralStatus, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert inserts a new user and populates the generated ID.
// Returns service.ErrInvalidRequest if the email or referral code collides.
func (r *UserRepository) Insert(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, role, referral_code, referred_by, referral_status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.Email, u.Name, u.Role, u.ReferralCode, u.ReferredBy, u.ReferralStatus,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrInvalidRequest
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id.
// Returns nil, nil if the user is not found (service layer handles this).
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// GetForUpdate retrieves a user with a row lock (SELECT FOR UPDATE) so
// loyalty counters can be read and written atomically.
// Returns service.ErrUserNotFound if the user doesn't exist.
func (r *UserRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error) {
	u, err := scanUser(tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user for update %d: %w", id, err)
	}
	return u, nil
}

// GetByReferralCode retrieves a user by referral code.
// Returns nil, nil if no user carries the code.
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by referral code: %w", err)
	}
	return u, nil
}

// UpdateLoyalty writes the loyalty counters. Must be called within a
// transaction after locking the row.
func (r *UserRepository) UpdateLoyalty(ctx context.Context, tx database.TxQuerier, id int64, slotsEarned, discountsAvailable, yearReset int) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET loyalty_slots_earned = $2, loyalty_discounts_available = $3,
			loyalty_year_reset = $4
		 WHERE id = $1`,
		id, slotsEarned, discountsAvailable, yearReset)
	if err != nil {
		return fmt.Errorf("update loyalty for user %d: %w", id, err)
	}
	return nil
}

// SetReferralStatus flips a user's referral status (pending -> credited
// once a qualifying booking is paid).
func (r *UserRepository) SetReferralStatus(ctx context.Context, tx database.TxQuerier, id int64, status string) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET referral_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set referral status for user %d: %w", id, err)
	}
	return nil
}
