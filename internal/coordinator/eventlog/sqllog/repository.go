// Package sqllog stores the confirmation event log in the service database,
// next to the orders it describes.
package sqllog

import (
	"context"
	"fmt"

	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/database"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS confirmation_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT NOT NULL,
    kind        TEXT NOT NULL,
    name        TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_confirmation_events_order ON confirmation_events(order_id, created_at);
CREATE INDEX IF NOT EXISTS idx_confirmation_events_trace ON confirmation_events(trace_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS confirmation_events (
    id          BIGSERIAL PRIMARY KEY,
    order_id    TEXT NOT NULL,
    kind        TEXT NOT NULL,
    name        TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_confirmation_events_order ON confirmation_events(order_id, created_at);
CREATE INDEX IF NOT EXISTS idx_confirmation_events_trace ON confirmation_events(trace_id);
`

var _ eventlog.Repository = (*Repository)(nil)

type Repository struct {
	db *database.DB
}

// New applies the schema and returns the repository. Idempotent.
func New(ctx context.Context, db *database.DB) (*Repository, error) {
	ddl := sqliteSchema
	if db.Dialect == database.Postgres {
		ddl = postgresSchema
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("sqllog: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Save inserts a new entry. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *eventlog.Entry) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO confirmation_events
			(order_id, kind, name, status, detail, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`),
		entry.OrderID,
		string(entry.Kind),
		entry.Name,
		string(entry.Status),
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqllog: save event for %q: %w", entry.OrderID, err)
	}
	return nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]eventlog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT order_id, kind, name, status, detail, trace_id, span_id, created_at
		FROM   confirmation_events
		WHERE  order_id = ?
		ORDER  BY created_at, id`), orderID)
	if err != nil {
		return nil, fmt.Errorf("sqllog: list events for %q: %w", orderID, err)
	}
	defer rows.Close()

	out := []eventlog.Entry{}
	for rows.Next() {
		var (
			e         eventlog.Entry
			createdAt string
		)
		if err := rows.Scan(&e.OrderID, &e.Kind, &e.Name, &e.Status, &e.Detail, &e.TraceID, &e.SpanID, &createdAt); err != nil {
			return nil, fmt.Errorf("sqllog: scan event for %q: %w", orderID, err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqllog: list events for %q: %w", orderID, err)
	}
	return out, nil
}
