package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/service"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/pkg/database"
)

// CampaignRepository provides data access for campaigns using pgx.
type CampaignRepository struct {
	pool PoolInterface
}

// NewCampaignRepository creates a new CampaignRepository with the given pool.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// NewCampaignRepositoryWithPool creates a CampaignRepository with a custom
// pool interface. Primarily used for testing.
func NewCampaignRepositoryWithPool(pool PoolInterface) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `id, name, mail_date, print_deadline, status, total_slots,
	booked_slots, revenue_cents, base_slot_price_cents, additional_slot_price_cents, created_at`

func scanCampaign(row pgx.Row) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.MailDate, &c.PrintDeadline, &c.Status, &c.TotalSlots,
		&c.BookedSlots, &c.RevenueCents, &c.BaseSlotPriceCents, &c.AdditionalSlotPriceCents,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert inserts a new campaign and populates the generated ID.
func (r *CampaignRepository) Insert(ctx context.Context, c *model.Campaign) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO campaigns (name, mail_date, print_deadline, status, total_slots,
			base_slot_price_cents, additional_slot_price_cents)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		c.Name, c.MailDate, c.PrintDeadline, c.Status, c.TotalSlots,
		c.BaseSlotPriceCents, c.AdditionalSlotPriceCents,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetByID retrieves a campaign by id.
// Returns nil, nil if the campaign is not found (service layer handles this).
func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get campaign %d: %w", id, err)
	}
	return c, nil
}

// GetForUpdate retrieves a campaign with a row lock (SELECT FOR UPDATE).
// This serializes slot reservations per campaign until the transaction
// completes. Returns service.ErrCampaignNotFound if the campaign doesn't exist.
func (r *CampaignRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Campaign, error) {
	c, err := scanCampaign(tx.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("get campaign for update %d: %w", id, err)
	}
	return c, nil
}

// AdjustBookedSlots adds delta to the campaign's booked_slots counter.
// Must be called within a transaction after locking the row.
func (r *CampaignRepository) AdjustBookedSlots(ctx context.Context, tx database.TxQuerier, id int64, delta int) error {
	_, err := tx.Exec(ctx,
		`UPDATE campaigns SET booked_slots = booked_slots + $2 WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust booked slots for campaign %d: %w", id, err)
	}
	return nil
}

// AddRevenue adds cents to the campaign's derived revenue counter.
func (r *CampaignRepository) AddRevenue(ctx context.Context, tx database.TxQuerier, id int64, cents int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE campaigns SET revenue_cents = revenue_cents + $2 WHERE id = $1`, id, cents)
	if err != nil {
		return fmt.Errorf("add revenue for campaign %d: %w", id, err)
	}
	return nil
}

// UpdateStatus writes a new campaign status. Transition validity is the
// service's responsibility.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update campaign %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCampaignNotFound
	}
	return nil
}

// List returns all campaigns ordered by mail date, newest first.
func (r *CampaignRepository) List(ctx context.Context) ([]*model.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns ORDER BY mail_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return campaigns, nil
}
