package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// schema holds the DDL for all tables, applied in dependency order.
// Statements use IF NOT EXISTS so Migrate is safe to run on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS routes (
		id              BIGSERIAL PRIMARY KEY,
		zip_code        VARCHAR(10) NOT NULL UNIQUE,
		name            VARCHAR(255) NOT NULL,
		household_count INT NOT NULL DEFAULT 0,
		status          VARCHAR(16) NOT NULL DEFAULT 'active',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS industries (
		id     BIGSERIAL PRIMARY KEY,
		name   VARCHAR(255) NOT NULL UNIQUE,
		status VARCHAR(16) NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS industry_subcategories (
		id          BIGSERIAL PRIMARY KEY,
		industry_id BIGINT NOT NULL REFERENCES industries(id),
		name        VARCHAR(255) NOT NULL,
		sort_order  INT NOT NULL DEFAULT 0,
		UNIQUE (industry_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id                          BIGSERIAL PRIMARY KEY,
		name                        VARCHAR(255) NOT NULL,
		mail_date                   TIMESTAMPTZ NOT NULL,
		print_deadline              TIMESTAMPTZ NOT NULL,
		status                      VARCHAR(32) NOT NULL DEFAULT 'planning',
		total_slots                 INT NOT NULL DEFAULT 64,
		booked_slots                INT NOT NULL DEFAULT 0,
		revenue_cents               BIGINT NOT NULL DEFAULT 0,
		base_slot_price_cents       BIGINT NOT NULL DEFAULT 0,
		additional_slot_price_cents BIGINT NOT NULL DEFAULT 0,
		created_at                  TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (print_deadline < mail_date),
		CHECK (booked_slots >= 0 AND booked_slots <= total_slots)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id                          BIGSERIAL PRIMARY KEY,
		email                       VARCHAR(255) NOT NULL UNIQUE,
		name                        VARCHAR(255) NOT NULL,
		role                        VARCHAR(16) NOT NULL DEFAULT 'customer',
		loyalty_slots_earned        INT NOT NULL DEFAULT 0,
		loyalty_discounts_available INT NOT NULL DEFAULT 0,
		loyalty_year_reset          INT NOT NULL DEFAULT 0,
		referral_code               VARCHAR(36) NOT NULL UNIQUE,
		referred_by                 BIGINT REFERENCES users(id),
		referral_status             VARCHAR(16) NOT NULL DEFAULT 'none',
		created_at                  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                       BIGSERIAL PRIMARY KEY,
		user_id                  BIGINT NOT NULL REFERENCES users(id),
		campaign_id              BIGINT NOT NULL REFERENCES campaigns(id),
		route_id                 BIGINT NOT NULL REFERENCES routes(id),
		industry_id              BIGINT NOT NULL REFERENCES industries(id),
		subcategory_id           BIGINT REFERENCES industry_subcategories(id),
		quantity                 INT NOT NULL CHECK (quantity BETWEEN 1 AND 4),
		amount_cents             BIGINT NOT NULL DEFAULT 0,
		base_price_cents         BIGINT NOT NULL DEFAULT 0,
		price_override_cents     BIGINT,
		price_override_note      VARCHAR(500),
		loyalty_discount_applied BOOLEAN NOT NULL DEFAULT false,
		applied_rule_id          BIGINT,
		status                   VARCHAR(16) NOT NULL DEFAULT 'pending',
		payment_status           VARCHAR(16) NOT NULL DEFAULT 'pending',
		amount_paid_cents        BIGINT NOT NULL DEFAULT 0,
		paid_at                  TIMESTAMPTZ,
		approval_status          VARCHAR(16) NOT NULL DEFAULT 'pending',
		rejection_note           VARCHAR(500),
		artwork_status           VARCHAR(32) NOT NULL DEFAULT 'pending_upload',
		artwork_file             VARCHAR(500),
		artwork_rejection_reason VARCHAR(500),
		design_status            VARCHAR(32) NOT NULL DEFAULT 'pending_design',
		revision_count           INT NOT NULL DEFAULT 0 CHECK (revision_count <= 2),
		cancelled_at             TIMESTAMPTZ,
		cancellation_reason      VARCHAR(500),
		refund_status            VARCHAR(16) NOT NULL DEFAULT 'none',
		contract_accepted_at     TIMESTAMPTZ,
		created_at               TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_campaign_route
		ON bookings (campaign_id, route_id) WHERE status <> 'cancelled'`,
	`CREATE TABLE IF NOT EXISTS pricing_rules (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		campaign_id BIGINT REFERENCES campaigns(id),
		user_id     BIGINT REFERENCES users(id),
		rule_type   VARCHAR(32) NOT NULL,
		value       BIGINT NOT NULL CHECK (value >= 0),
		priority    INT NOT NULL DEFAULT 0,
		usage_limit INT,
		usage_count INT NOT NULL DEFAULT 0,
		status      VARCHAR(16) NOT NULL DEFAULT 'active',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS pricing_rule_applications (
		id             BIGSERIAL PRIMARY KEY,
		rule_id        BIGINT NOT NULL REFERENCES pricing_rules(id),
		booking_id     BIGINT NOT NULL UNIQUE REFERENCES bookings(id),
		user_id        BIGINT NOT NULL REFERENCES users(id),
		discount_cents BIGINT NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS waitlist_entries (
		id                BIGSERIAL PRIMARY KEY,
		user_id           BIGINT NOT NULL REFERENCES users(id),
		campaign_id       BIGINT NOT NULL REFERENCES campaigns(id),
		route_id          BIGINT NOT NULL REFERENCES routes(id),
		industry_id       BIGINT NOT NULL REFERENCES industries(id),
		subcategory_id    BIGINT REFERENCES industry_subcategories(id),
		quantity          INT NOT NULL CHECK (quantity BETWEEN 1 AND 4),
		status            VARCHAR(16) NOT NULL DEFAULT 'active',
		notified_count    INT NOT NULL DEFAULT 0,
		last_notified_at  TIMESTAMPTZ,
		notified_channels VARCHAR(64),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS design_revisions (
		id              BIGSERIAL PRIMARY KEY,
		booking_id      BIGINT NOT NULL REFERENCES bookings(id),
		revision_number INT NOT NULL,
		file_name       VARCHAR(500) NOT NULL,
		status          VARCHAR(32) NOT NULL DEFAULT 'pending_review',
		feedback        VARCHAR(1000),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (booking_id, revision_number)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         UUID PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		kind       VARCHAR(64) NOT NULL,
		subject    VARCHAR(255) NOT NULL,
		body       TEXT NOT NULL,
		read_at    TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate applies the schema to the connected database. It is idempotent
// and intended to run at startup before the server accepts traffic.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	log.Info().Int("statements", len(schema)).Msg("database schema ensured")
	return nil
}
