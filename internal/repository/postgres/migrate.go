package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"stableride-backend/internal/logger"
)

// migrations are applied in order exactly once, tracked in
// schema_migrations. Run at service startup, never from request paths.
var migrations = []struct {
	version int
	name    string
	stmts   []string
}{
	{
		version: 1,
		name:    "core tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				rank_points BIGINT NOT NULL DEFAULT 0,
				current_league_id BIGINT,
				device_token TEXT,
				created_on TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
			`CREATE TABLE IF NOT EXISTS stables (
				id BIGSERIAL PRIMARY KEY,
				owner_id BIGINT NOT NULL REFERENCES users(id),
				name TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'PENDING',
				commission_rate DOUBLE PRECISION
			)`,
			`CREATE TABLE IF NOT EXISTS horses (
				id BIGSERIAL PRIMARY KEY,
				stable_id BIGINT NOT NULL REFERENCES stables(id),
				name TEXT NOT NULL,
				admin_tier TEXT,
				price_per_hour_cents BIGINT NOT NULL DEFAULT 0,
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)`,
			`CREATE TABLE IF NOT EXISTS bookings (
				id BIGSERIAL PRIMARY KEY,
				rider_id BIGINT NOT NULL REFERENCES users(id),
				stable_id BIGINT NOT NULL REFERENCES stables(id),
				horse_id BIGINT NOT NULL REFERENCES horses(id),
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ NOT NULL,
				total_price_cents BIGINT NOT NULL,
				commission_cents BIGINT NOT NULL,
				status TEXT NOT NULL,
				cancellation_reason TEXT NOT NULL DEFAULT '',
				cancelled_by TEXT,
				is_rescheduled BOOLEAN NOT NULL DEFAULT FALSE,
				rescheduled_from TIMESTAMPTZ,
				rescheduled_to TIMESTAMPTZ,
				refund_status TEXT NOT NULL DEFAULT 'NONE',
				refund_amount_cents BIGINT NOT NULL DEFAULT 0,
				refund_reason TEXT NOT NULL DEFAULT '',
				payment_ref TEXT,
				refund_ref TEXT,
				created_on TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_on TIMESTAMPTZ NOT NULL DEFAULT now(),
				CHECK (end_time > start_time)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_horse_window
				ON bookings (horse_id, start_time, end_time)
				WHERE status IN ('CONFIRMED', 'RESCHEDULED')`,
			`CREATE TABLE IF NOT EXISTS availability_slots (
				id BIGSERIAL PRIMARY KEY,
				stable_id BIGINT NOT NULL REFERENCES stables(id),
				horse_id BIGINT REFERENCES horses(id),
				start_time TIMESTAMPTZ NOT NULL,
				is_booked BOOLEAN NOT NULL DEFAULT FALSE,
				created_on TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		},
	},
	{
		version: 2,
		name:    "scoring tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS rider_reviews (
				id BIGSERIAL PRIMARY KEY,
				booking_id BIGINT NOT NULL UNIQUE REFERENCES bookings(id),
				rider_id BIGINT NOT NULL REFERENCES users(id),
				riding_skill_level INT NOT NULL CHECK (riding_skill_level BETWEEN 1 AND 10),
				behavior_rating INT NOT NULL CHECK (behavior_rating BETWEEN 1 AND 5),
				comment TEXT NOT NULL DEFAULT '',
				created_on TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
			`CREATE TABLE IF NOT EXISTS ride_results (
				id BIGSERIAL PRIMARY KEY,
				booking_id BIGINT NOT NULL UNIQUE REFERENCES bookings(id),
				rider_id BIGINT NOT NULL REFERENCES users(id),
				horse_id BIGINT NOT NULL REFERENCES horses(id),
				stable_id BIGINT NOT NULL REFERENCES stables(id),
				rps INT NOT NULL,
				points_change BIGINT NOT NULL,
				created_on TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		},
	},
	{
		version: 3,
		name:    "league tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS leagues (
				id BIGSERIAL PRIMARY KEY,
				division TEXT NOT NULL,
				start_date TIMESTAMPTZ NOT NULL,
				end_date TIMESTAMPTZ NOT NULL,
				status TEXT NOT NULL DEFAULT 'ACTIVE'
			)`,
			`CREATE TABLE IF NOT EXISTS league_members (
				league_id BIGINT NOT NULL REFERENCES leagues(id),
				rider_id BIGINT NOT NULL REFERENCES users(id),
				PRIMARY KEY (league_id, rider_id)
			)`,
			`CREATE TABLE IF NOT EXISTS league_standings (
				id BIGSERIAL PRIMARY KEY,
				league_id BIGINT NOT NULL REFERENCES leagues(id),
				rider_id BIGINT NOT NULL REFERENCES users(id),
				rank_points BIGINT NOT NULL,
				final_rank INT NOT NULL,
				promoted BOOLEAN NOT NULL,
				created_on TIMESTAMPTZ NOT NULL DEFAULT now(),
				UNIQUE (league_id, rider_id)
			)`,
		},
	},
	{
		version: 4,
		name:    "notifications",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS notifications (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id),
				title TEXT NOT NULL,
				message TEXT NOT NULL,
				is_read BOOLEAN NOT NULL DEFAULT FALSE,
				attributes JSONB,
				created_on TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		},
	},
}

// Migrate brings the schema up to date. Each pending version runs in
// its own transaction together with its schema_migrations row.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_on TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		for _, stmt := range m.stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		logger.Info("Applied migration", "version", m.version, "name", m.name)
	}
	return nil
}
