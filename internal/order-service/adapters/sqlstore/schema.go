package sqlstore

import (
	"context"
	"fmt"

	"github.com/Basilalghandour/Bot-Project/internal/pkg/database"
)

// sqliteSchema stores amounts as TEXT with two fixed decimals and timestamps
// as RFC3339 TEXT; SQLite has no exact decimal or datetime type.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS brands (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    website        TEXT NOT NULL DEFAULT '',
    contact_email  TEXT NOT NULL DEFAULT '',
    phone_number   TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS customers (
    id           TEXT PRIMARY KEY,
    first_name   TEXT NOT NULL DEFAULT '',
    last_name    TEXT NOT NULL DEFAULT '',
    email        TEXT NOT NULL DEFAULT '',
    phone        TEXT NOT NULL DEFAULT '',
    address      TEXT NOT NULL DEFAULT '',
    apartment    TEXT NOT NULL DEFAULT '',
    city         TEXT NOT NULL DEFAULT '',
    state        TEXT NOT NULL DEFAULT '',
    country      TEXT NOT NULL DEFAULT '',
    postal_code  TEXT
);

-- external_id is UNIQUE but nullable: NULLs never collide.
CREATE TABLE IF NOT EXISTS orders (
    id             TEXT PRIMARY KEY,
    external_id    TEXT UNIQUE,
    brand_id       TEXT REFERENCES brands(id) ON DELETE CASCADE,
    customer_id    TEXT NOT NULL REFERENCES customers(id),
    shipping_cost  TEXT NOT NULL DEFAULT '0.00',
    total_cost     TEXT NOT NULL DEFAULT '0.00',
    status         TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'cancelled')),
    created_at     TEXT NOT NULL,
    confirmed_at   TEXT
);

CREATE INDEX IF NOT EXISTS idx_orders_brand_id ON orders(brand_id, created_at);

CREATE TABLE IF NOT EXISTS order_items (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id      TEXT    NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    position      INTEGER NOT NULL,
    product_name  TEXT    NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity >= 1),
    price         TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id, position);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS brands (
    id             TEXT PRIMARY KEY,
    name           VARCHAR(100) NOT NULL,
    website        TEXT NOT NULL DEFAULT '',
    contact_email  TEXT NOT NULL DEFAULT '',
    phone_number   VARCHAR(20) NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS customers (
    id           TEXT PRIMARY KEY,
    first_name   VARCHAR(100) NOT NULL DEFAULT '',
    last_name    VARCHAR(100) NOT NULL DEFAULT '',
    email        TEXT NOT NULL DEFAULT '',
    phone        VARCHAR(32) NOT NULL DEFAULT '',
    address      VARCHAR(255) NOT NULL DEFAULT '',
    apartment    VARCHAR(100) NOT NULL DEFAULT '',
    city         VARCHAR(100) NOT NULL DEFAULT '',
    state        VARCHAR(100) NOT NULL DEFAULT '',
    country      VARCHAR(50) NOT NULL DEFAULT '',
    postal_code  VARCHAR(20)
);

CREATE TABLE IF NOT EXISTS orders (
    id             TEXT PRIMARY KEY,
    external_id    VARCHAR(255) UNIQUE,
    brand_id       TEXT REFERENCES brands(id) ON DELETE CASCADE,
    customer_id    TEXT NOT NULL REFERENCES customers(id),
    shipping_cost  NUMERIC(10,2) NOT NULL DEFAULT 0,
    total_cost     NUMERIC(10,2) NOT NULL DEFAULT 0,
    status         TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'cancelled')),
    created_at     TIMESTAMPTZ NOT NULL,
    confirmed_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_orders_brand_id ON orders(brand_id, created_at);

CREATE TABLE IF NOT EXISTS order_items (
    id            BIGSERIAL PRIMARY KEY,
    order_id      TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    position      INTEGER NOT NULL,
    product_name  VARCHAR(100) NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity >= 1),
    price         NUMERIC(10,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id, position);
`

// Migrate applies the order schema. It is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	schema := sqliteSchema
	if db.Dialect == database.Postgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlstore: apply schema: %w", err)
	}
	return nil
}
