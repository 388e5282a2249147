package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// WaitlistRepository provides data access for waitlist entries using pgx.
type WaitlistRepository struct {
	pool PoolInterface
}

// NewWaitlistRepository creates a new WaitlistRepository with the given pool.
func NewWaitlistRepository(pool *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

// NewWaitlistRepositoryWithPool creates a WaitlistRepository with a custom
// pool interface. Primarily used for testing.
func NewWaitlistRepositoryWithPool(pool PoolInterface) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

const waitlistColumns = `id, user_id, campaign_id, route_id, industry_id, subcategory_id,
	quantity, status, notified_count, last_notified_at, notified_channels, created_at`

func scanWaitlistEntry(row pgx.Row) (*model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	err := row.Scan(
		&e.ID, &e.UserID, &e.CampaignID, &e.RouteID, &e.IndustryID, &e.SubcategoryID,
		&e.Quantity, &e.Status, &e.NotifiedCount, &e.LastNotifiedAt, &e.NotifiedChannels,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert inserts a new waitlist entry and populates the generated ID.
func (r *WaitlistRepository) Insert(ctx context.Context, e *model.WaitlistEntry) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO waitlist_entries (user_id, campaign_id, route_id, industry_id, subcategory_id, quantity, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.UserID, e.CampaignID, e.RouteID, e.IndustryID, e.SubcategoryID, e.Quantity, e.Status,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert waitlist entry: %w", err)
	}
	return nil
}

// ActiveMatching returns active entries for the campaign that match the
// freed route or industry, oldest first (FIFO).
func (r *WaitlistRepository) ActiveMatching(ctx context.Context, campaignID, routeID, industryID int64) ([]*model.WaitlistEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries
		 WHERE campaign_id = $1 AND status = 'active'
		   AND (route_id = $2 OR industry_id = $3)
		 ORDER BY created_at`,
		campaignID, routeID, industryID)
	if err != nil {
		return nil, fmt.Errorf("list matching waitlist entries: %w", err)
	}
	defer rows.Close()

	entries := []*model.WaitlistEntry{}
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate waitlist entries: %w", err)
	}
	return entries, nil
}

// GetByIDs returns the entries for the given ids, oldest first. Missing
// ids are simply absent from the result.
func (r *WaitlistRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.WaitlistEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries
		 WHERE id = ANY($1) ORDER BY created_at`,
		ids)
	if err != nil {
		return nil, fmt.Errorf("get waitlist entries: %w", err)
	}
	defer rows.Close()

	entries := []*model.WaitlistEntry{}
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate waitlist entries: %w", err)
	}
	return entries, nil
}

// MarkNotified flips an entry to notified and records the channel list
// and timestamp. The notified counter accumulates across notifies.
func (r *WaitlistRepository) MarkNotified(ctx context.Context, id int64, channels string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE waitlist_entries SET status = 'notified', notified_count = notified_count + 1,
			last_notified_at = $2, notified_channels = $3
		 WHERE id = $1`,
		id, at, channels)
	if err != nil {
		return fmt.Errorf("mark waitlist entry %d notified: %w", id, err)
	}
	return nil
}

// MarkConverted records that the customer turned the entry into a booking.
func (r *WaitlistRepository) MarkConverted(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE waitlist_entries SET status = 'converted' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark waitlist entry %d converted: %w", id, err)
	}
	return nil
}
