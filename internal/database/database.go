// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/config"
)

// DSN builds a libpq-compatible connection string.
func DSN(c config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// NewPool creates and validates a pgxpool connection pool.
// It retries up to 5 times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.DBConfig, log *logrus.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		log.WithError(err).WithField("attempt", attempt).Warn("db connect failed, retrying in 2s")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return pool, nil
}

// schema is applied at startup. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS registrations (
		id             UUID PRIMARY KEY,
		name           TEXT NOT NULL,
		document       TEXT NOT NULL,
		email          TEXT NOT NULL,
		phone          TEXT NOT NULL,
		birth_date     DATE NOT NULL,
		school         TEXT NOT NULL DEFAULT '',
		choreographer  TEXT NOT NULL DEFAULT '',
		notes          TEXT NOT NULL DEFAULT '',
		total_cents    BIGINT NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		payment_id     TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS registration_items (
		registration_id UUID NOT NULL REFERENCES registrations(id) ON DELETE CASCADE,
		event_id        TEXT NOT NULL,
		title           TEXT NOT NULL,
		style           TEXT NOT NULL,
		modality        TEXT NOT NULL,
		category        TEXT NOT NULL,
		participants    INT NOT NULL,
		names           TEXT[] NOT NULL DEFAULT '{}',
		price_cents     BIGINT NOT NULL,
		PRIMARY KEY (registration_id, event_id)
	)`,
	`CREATE INDEX IF NOT EXISTS registration_items_event_idx ON registration_items (event_id)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		phone      TEXT NOT NULL DEFAULT '',
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS donations (
		id           UUID PRIMARY KEY,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL,
		amount_cents BIGINT NOT NULL,
		message      TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the tables the service needs.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
