package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the catalog tables. seq columns preserve insertion order,
// which is the catalog order used for ranking and allocation.
const Schema = `
CREATE TABLE IF NOT EXISTS stores (
	id            TEXT PRIMARY KEY,
	seq           BIGSERIAL,
	name          TEXT NOT NULL DEFAULT '',
	latitude      DOUBLE PRECISION,
	longitude     DOUBLE PRECISION,
	distance_km   DOUBLE PRECISION CHECK (distance_km IS NULL OR distance_km >= 0),
	opening_hours TEXT NOT NULL DEFAULT '',
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	seq         BIGSERIAL,
	name        TEXT NOT NULL DEFAULT '',
	brand       TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	barcode     TEXT UNIQUE,
	nutri_grade TEXT NOT NULL DEFAULT '',
	eco_grade   TEXT NOT NULL DEFAULT '',
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS price_entries (
	product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	store_id    TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
	price       NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	available   BOOLEAN NOT NULL DEFAULT TRUE,
	promo_type  TEXT,
	promo_value NUMERIC(12, 2),
	promo_until TIMESTAMPTZ,
	updated_at  TIMESTAMPTZ,
	PRIMARY KEY (product_id, store_id)
);

CREATE INDEX IF NOT EXISTS idx_price_entries_store ON price_entries (store_id);
`

// Migrate applies Schema. It is idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
