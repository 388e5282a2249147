package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/service"
	"github.com/PGMA10/RRAK-Booking-Platform-sub002/pkg/database"
)

// BookingRepository provides data access for bookings using pgx.
type BookingRepository struct {
	pool PoolInterface
}

// NewBookingRepository creates a new BookingRepository with the given pool.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// NewBookingRepositoryWithPool creates a BookingRepository with a custom
// pool interface. Primarily used for testing.
func NewBookingRepositoryWithPool(pool PoolInterface) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, user_id, campaign_id, route_id, industry_id, subcategory_id,
	quantity, amount_cents, base_price_cents, price_override_cents, price_override_note,
	loyalty_discount_applied, applied_rule_id, status, payment_status, amount_paid_cents,
	paid_at, approval_status, rejection_note, artwork_status, artwork_file,
	artwork_rejection_reason, design_status, revision_count, cancelled_at,
	cancellation_reason, refund_status, contract_accepted_at, created_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.CampaignID, &b.RouteID, &b.IndustryID, &b.SubcategoryID,
		&b.Quantity, &b.AmountCents, &b.BasePriceCents, &b.PriceOverrideCents, &b.PriceOverrideNote,
		&b.LoyaltyDiscountApplied, &b.AppliedRuleID, &b.Status, &b.PaymentStatus, &b.AmountPaidCents,
		&b.PaidAt, &b.ApprovalStatus, &b.RejectionNote, &b.ArtworkStatus, &b.ArtworkFile,
		&b.ArtworkRejectionReason, &b.DesignStatus, &b.RevisionCount, &b.CancelledAt,
		&b.CancellationReason, &b.RefundStatus, &b.ContractAcceptedAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Insert inserts a new booking within a transaction and populates the
// generated ID. The id doubles as the slot-hold token returned to the
// caller.
func (r *BookingRepository) Insert(ctx context.Context, tx database.TxQuerier, b *model.Booking) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO bookings (user_id, campaign_id, route_id, industry_id, subcategory_id,
			quantity, amount_cents, base_price_cents, price_override_cents, price_override_note,
			loyalty_discount_applied, applied_rule_id, status, payment_status, approval_status,
			artwork_status, design_status, refund_status, contract_accepted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING id, created_at`,
		b.UserID, b.CampaignID, b.RouteID, b.IndustryID, b.SubcategoryID,
		b.Quantity, b.AmountCents, b.BasePriceCents, b.PriceOverrideCents, b.PriceOverrideNote,
		b.LoyaltyDiscountApplied, b.AppliedRuleID, b.Status, b.PaymentStatus, b.ApprovalStatus,
		b.ArtworkStatus, b.DesignStatus, b.RefundStatus, b.ContractAcceptedAt,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by id.
// Returns nil, nil if the booking is not found (service layer handles this).
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

// GetForUpdate retrieves a booking with a row lock (SELECT FOR UPDATE).
// Returns service.ErrBookingNotFound if the booking doesn't exist.
func (r *BookingRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Booking, error) {
	b, err := scanBooking(tx.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking for update %d: %w", id, err)
	}
	return b, nil
}

// RouteOccupancy sums the quantities of non-cancelled bookings on the
// (campaign, route) pair. Called under the campaign row lock so the sum
// cannot move while a reservation is in flight.
func (r *BookingRepository) RouteOccupancy(ctx context.Context, tx database.TxQuerier, campaignID, routeID int64) (int, error) {
	var occupied int
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM bookings
		 WHERE campaign_id = $1 AND route_id = $2 AND status <> 'cancelled'`,
		campaignID, routeID,
	).Scan(&occupied)
	if err != nil {
		return 0, fmt.Errorf("route occupancy for campaign %d route %d: %w", campaignID, routeID, err)
	}
	return occupied, nil
}

// SetApproval writes the approval axis. The note is stored on rejection
// and cleared on approval.
func (r *BookingRepository) SetApproval(ctx context.Context, tx database.TxQuerier, id int64, status string, note *string) error {
	_, err := tx.Exec(ctx,
		`UPDATE bookings SET approval_status = $2, rejection_note = $3 WHERE id = $1`,
		id, status, note)
	if err != nil {
		return fmt.Errorf("set approval for booking %d: %w", id, err)
	}
	return nil
}

// SetPayment writes the payment axis and the paid amount/timestamp.
func (r *BookingRepository) SetPayment(ctx context.Context, tx database.TxQuerier, id int64, status string, amountPaid int64, paidAt *time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE bookings SET payment_status = $2, amount_paid_cents = $3, paid_at = $4 WHERE id = $1`,
		id, status, amountPaid, paidAt)
	if err != nil {
		return fmt.Errorf("set payment for booking %d: %w", id, err)
	}
	return nil
}

// SetArtwork writes the artwork axis. A resubmission passes a new file
// and a nil reason, clearing any previous rejection.
func (r *BookingRepository) SetArtwork(ctx context.Context, id int64, status string, file, reason *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bookings SET artwork_status = $2,
			artwork_file = COALESCE($3, artwork_file),
			artwork_rejection_reason = $4
		 WHERE id = $1`,
		id, status, file, reason)
	if err != nil {
		return fmt.Errorf("set artwork for booking %d: %w", id, err)
	}
	return nil
}

// SetDesign writes the design axis and the revision counter.
func (r *BookingRepository) SetDesign(ctx context.Context, tx database.TxQuerier, id int64, status string, revisionCount int) error {
	_, err := tx.Exec(ctx,
		`UPDATE bookings SET design_status = $2, revision_count = $3 WHERE id = $1`,
		id, status, revisionCount)
	if err != nil {
		return fmt.Errorf("set design for booking %d: %w", id, err)
	}
	return nil
}

// SetStatus writes the overall booking status.
func (r *BookingRepository) SetStatus(ctx context.Context, tx database.TxQuerier, id int64, status string) error {
	_, err := tx.Exec(ctx,
		`UPDATE bookings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set status for booking %d: %w", id, err)
	}
	return nil
}

// MarkCancelled records the cancellation fields and flips the status in
// one statement. The status guard in the WHERE clause makes release
// idempotent: a second cancel affects zero rows.
func (r *BookingRepository) MarkCancelled(ctx context.Context, tx database.TxQuerier, id int64, reason, refundStatus string, at time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE bookings SET status = 'cancelled', cancellation_reason = $2,
			refund_status = $3, cancelled_at = $4
		 WHERE id = $1 AND status <> 'cancelled'`,
		id, reason, refundStatus, at)
	if err != nil {
		return false, fmt.Errorf("mark booking %d cancelled: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for user %d: %w", userID, err)
	}
	defer rows.Close()

	bookings := []*model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

// CountConfirmedThisYear counts the user's non-cancelled bookings created
// in the given calendar year. Used for loyalty accrual.
func (r *BookingRepository) CountConfirmedThisYear(ctx context.Context, tx database.TxQuerier, userID int64, year int) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE user_id = $1 AND status <> 'cancelled'
		   AND EXTRACT(YEAR FROM created_at) = $2`,
		userID, year,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count confirmed bookings for user %d: %w", userID, err)
	}
	return count, nil
}
