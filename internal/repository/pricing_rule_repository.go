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

// PricingRuleRepository provides data access for pricing rules and their
// application audit trail using pgx.
type PricingRuleRepository struct {
	pool PoolInterface
}

// NewPricingRuleRepository creates a new PricingRuleRepository with the given pool.
func NewPricingRuleRepository(pool *pgxpool.Pool) *PricingRuleRepository {
	return &PricingRuleRepository{pool: pool}
}

// NewPricingRuleRepositoryWithPool creates a PricingRuleRepository with a
// custom pool interface. Primarily used for testing.
func NewPricingRuleRepositoryWithPool(pool PoolInterface) *PricingRuleRepository {
	return &PricingRuleRepository{pool: pool}
}

const ruleColumns = `id, name, campaign_id, user_id, rule_type, value, priority,
	usage_limit, usage_count, status, created_at`

func scanRule(row pgx.Row) (*model.PricingRule, error) {
	var r model.PricingRule
	err := row.Scan(
		&r.ID, &r.Name, &r.CampaignID, &r.UserID, &r.RuleType, &r.Value, &r.Priority,
		&r.UsageLimit, &r.UsageCount, &r.Status, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Insert inserts a new pricing rule and populates the generated ID.
func (r *PricingRuleRepository) Insert(ctx context.Context, rule *model.PricingRule) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO pricing_rules (name, campaign_id, user_id, rule_type, value, priority, usage_limit, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		rule.Name, rule.CampaignID, rule.UserID, rule.RuleType, rule.Value,
		rule.Priority, rule.UsageLimit, rule.Status,
	).Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pricing rule: %w", err)
	}
	return nil
}

// ListCandidates returns active, non-exhausted rules whose scope matches
// the target campaign and user. The winner is chosen in the service layer.
func (r *PricingRuleRepository) ListCandidates(ctx context.Context, campaignID, userID int64) ([]*model.PricingRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ruleColumns+` FROM pricing_rules
		 WHERE status = 'active'
		   AND (usage_limit IS NULL OR usage_count < usage_limit)
		   AND (campaign_id IS NULL OR campaign_id = $1)
		   AND (user_id IS NULL OR user_id = $2)`,
		campaignID, userID)
	if err != nil {
		return nil, fmt.Errorf("list candidate rules: %w", err)
	}
	defer rows.Close()

	rules := []*model.PricingRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pricing rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing rules: %w", err)
	}
	return rules, nil
}

// GetForUpdate retrieves a rule with a row lock (SELECT FOR UPDATE) so
// the usage cap can be re-checked and incremented atomically within the
// booking transaction. Returns service.ErrRuleNotFound if missing.
func (r *PricingRuleRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.PricingRule, error) {
	rule, err := scanRule(tx.QueryRow(ctx,
		`SELECT `+ruleColumns+` FROM pricing_rules WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrRuleNotFound
		}
		return nil, fmt.Errorf("get pricing rule for update %d: %w", id, err)
	}
	return rule, nil
}

// IncrementUsage bumps usage_count by 1. Must be called within a
// transaction after locking the row.
func (r *PricingRuleRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE pricing_rules SET usage_count = usage_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment usage for rule %d: %w", id, err)
	}
	return nil
}

// Deactivate sets a rule's status to inactive.
func (r *PricingRuleRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pricing_rules SET status = 'inactive' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate rule %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrRuleNotFound
	}
	return nil
}

// List returns all pricing rules, newest first.
func (r *PricingRuleRepository) List(ctx context.Context) ([]*model.PricingRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ruleColumns+` FROM pricing_rules ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	defer rows.Close()

	rules := []*model.PricingRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pricing rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing rules: %w", err)
	}
	return rules, nil
}

// InsertApplication records one use of a rule by a booking within the
// booking transaction. The unique constraint on booking_id guarantees at
// most one application per booking.
func (r *PricingRuleRepository) InsertApplication(ctx context.Context, tx database.TxQuerier, app *model.PricingRuleApplication) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO pricing_rule_applications (rule_id, booking_id, user_id, discount_cents)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		app.RuleID, app.BookingID, app.UserID, app.DiscountCents,
	).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rule application: %w", err)
	}
	return nil
}

// ListApplications returns the audit trail for a rule, oldest first.
func (r *PricingRuleRepository) ListApplications(ctx context.Context, ruleID int64) ([]*model.PricingRuleApplication, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, rule_id, booking_id, user_id, discount_cents, created_at
		 FROM pricing_rule_applications WHERE rule_id = $1 ORDER BY created_at`,
		ruleID)
	if err != nil {
		return nil, fmt.Errorf("list applications for rule %d: %w", ruleID, err)
	}
	defer rows.Close()

	apps := []*model.PricingRuleApplication{}
	for rows.Next() {
		var a model.PricingRuleApplication
		if err := rows.Scan(&a.ID, &a.RuleID, &a.BookingID, &a.UserID, &a.DiscountCents, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rule application: %w", err)
		}
		apps = append(apps, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule applications: %w", err)
	}
	return apps, nil
}
