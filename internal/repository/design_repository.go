package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/pkg/database"
)

// DesignRepository provides data access for design revisions using pgx.
type DesignRepository struct {
	pool PoolInterface
}

// NewDesignRepository creates a new DesignRepository with the given pool.
func NewDesignRepository(pool *pgxpool.Pool) *DesignRepository {
	return &DesignRepository{pool: pool}
}

// NewDesignRepositoryWithPool creates a DesignRepository with a custom pool
// interface. Primarily used for testing.
func NewDesignRepositoryWithPool(pool PoolInterface) *DesignRepository {
	return &DesignRepository{pool: pool}
}

// Insert inserts a revision within a transaction, assigning the next
// revision number for the booking. The unique (booking_id,
// revision_number) constraint keeps numbers strictly increasing even
// under concurrent submissions.
func (r *DesignRepository) Insert(ctx context.Context, tx database.TxQuerier, rev *model.DesignRevision) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO design_revisions (booking_id, revision_number, file_name, status)
		 VALUES ($1,
			(SELECT COALESCE(MAX(revision_number), 0) + 1 FROM design_revisions WHERE booking_id = $1),
			$2, $3)
		 RETURNING id, revision_number, created_at`,
		rev.BookingID, rev.FileName, rev.Status,
	).Scan(&rev.ID, &rev.RevisionNumber, &rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert design revision: %w", err)
	}
	return nil
}

// LatestByBooking returns the most recent revision for a booking.
// Returns nil, nil when the booking has no revisions yet.
func (r *DesignRepository) LatestByBooking(ctx context.Context, bookingID int64) (*model.DesignRevision, error) {
	var rev model.DesignRevision
	err := r.pool.QueryRow(ctx,
		`SELECT id, booking_id, revision_number, file_name, status, feedback, created_at
		 FROM design_revisions WHERE booking_id = $1
		 ORDER BY revision_number DESC LIMIT 1`,
		bookingID,
	).Scan(&rev.ID, &rev.BookingID, &rev.RevisionNumber, &rev.FileName, &rev.Status, &rev.Feedback, &rev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest revision for booking %d: %w", bookingID, err)
	}
	return &rev, nil
}

// SetStatus writes a revision's review outcome and optional feedback.
func (r *DesignRepository) SetStatus(ctx context.Context, tx database.TxQuerier, id int64, status string, feedback *string) error {
	_, err := tx.Exec(ctx,
		`UPDATE design_revisions SET status = $2, feedback = $3 WHERE id = $1`,
		id, status, feedback)
	if err != nil {
		return fmt.Errorf("set status for revision %d: %w", id, err)
	}
	return nil
}

// ListByBooking returns all revisions for a booking in submission order.
func (r *DesignRepository) ListByBooking(ctx context.Context, bookingID int64) ([]*model.DesignRevision, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, booking_id, revision_number, file_name, status, feedback, created_at
		 FROM design_revisions WHERE booking_id = $1 ORDER BY revision_number`,
		bookingID)
	if err != nil {
		return nil, fmt.Errorf("list revisions for booking %d: %w", bookingID, err)
	}
	defer rows.Close()

	revs := []*model.DesignRevision{}
	for rows.Next() {
		var rev model.DesignRevision
		if err := rows.Scan(&rev.ID, &rev.BookingID, &rev.RevisionNumber, &rev.FileName, &rev.Status, &rev.Feedback, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan design revision: %w", err)
		}
		revs = append(revs, &rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate design revisions: %w", err)
	}
	return revs, nil
}
