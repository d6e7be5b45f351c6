// Package sqlstore is the SQL implementation of the order and brand
// repositories. It runs on SQLite and PostgreSQL through database.DB.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/money"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/database"
)

var (
	_ ports.OrderRepository    = (*Repository)(nil)
	_ ports.BrandRepository    = (*Repository)(nil)
	_ ports.CustomerRepository = (*Repository)(nil)
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

const orderColumns = `
	o.id, COALESCE(o.external_id, ''), COALESCE(o.brand_id, ''), o.shipping_cost, o.total_cost,
	o.status, o.created_at, o.confirmed_at,
	c.id, c.first_name, c.last_name, c.email, c.phone, c.address, c.apartment,
	c.city, c.state, c.country, COALESCE(c.postal_code, '')`

// CreateOrder writes the customer, the order and its items in one transaction.
func (r *Repository) CreateOrder(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin create order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c := o.Customer
	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO customers
			(id, first_name, last_name, email, phone, address, apartment, city, state, country, postal_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.Apartment,
		c.City, c.State, c.Country, nullableString(c.PostalCode),
	)
	if err != nil {
		return fmt.Errorf("sqlstore: insert customer for order %q: %w", o.ID, err)
	}

	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO orders
			(id, external_id, brand_id, customer_id, shipping_cost, total_cost, status, created_at, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		o.ID,
		nullableString(o.ExternalID),
		nullableString(o.BrandID),
		c.ID,
		money.Format(o.ShippingCost),
		money.Format(o.TotalCost),
		string(o.Status),
		formatTime(o.CreatedAt),
		nullableTime(o.ConfirmedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrDuplicateExternalID
		}
		return fmt.Errorf("sqlstore: insert order %q: %w", o.ID, err)
	}

	for i, it := range o.Items {
		_, err = tx.ExecContext(ctx, r.db.Rebind(`
			INSERT INTO order_items (order_id, position, product_name, quantity, price)
			VALUES (?, ?, ?, ?, ?)`),
			o.ID, i, it.ProductName, it.Quantity, money.Format(it.UnitPrice),
		)
		if err != nil {
			return fmt.Errorf("sqlstore: insert item %d of order %q: %w", i, o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit order %q: %w", o.ID, err)
	}
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT`+orderColumns+`
		FROM   orders o
		JOIN   customers c ON c.id = o.customer_id
		WHERE  o.id = ?`), id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: get order %q: %w", id, err)
	}

	if o.Items, err = r.loadItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repository) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	q := `SELECT` + orderColumns + `
		FROM   orders o
		JOIN   customers c ON c.id = o.customer_id`
	var (
		where []string
		args  []any
	)
	if filter.BrandID != "" {
		where = append(where, `o.brand_id = ?`)
		args = append(args, filter.BrandID)
	}
	if filter.CustomerID != "" {
		where = append(where, `o.customer_id = ?`)
		args = append(args, filter.CustomerID)
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY o.created_at, o.id`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list orders: %w", err)
	}
	defer rows.Close()

	out := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scan order: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: list orders: %w", err)
	}

	for i := range out {
		if out[i].Items, err = r.loadItems(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repository) ExternalIDExists(ctx context.Context, externalID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM orders WHERE external_id = ?`), externalID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlstore: check external id: %w", err)
	}
	return n > 0, nil
}

// TransitionStatus is a compare-and-set on the status column. Concurrent
// callers racing on the same order see exactly one affected row between them.
func (r *Repository) TransitionStatus(ctx context.Context, id string, from, to domain.OrderStatus, confirmedAt *time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE orders
		SET    status = ?, confirmed_at = ?
		WHERE  id = ? AND status = ?`),
		string(to), nullableTime(confirmedAt), id, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("sqlstore: transition order %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlstore: transition order %q: %w", id, err)
	}
	if n == 1 {
		return true, nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM orders WHERE id = ?`), id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlstore: transition order %q: %w", id, err)
	}
	if exists == 0 {
		return false, domain.ErrOrderNotFound
	}
	return false, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT product_name, quantity, price
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY position`), orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: load items of %q: %w", orderID, err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		var (
			it    domain.LineItem
			price string
		)
		if err := rows.Scan(&it.ProductName, &it.Quantity, &price); err != nil {
			return nil, fmt.Errorf("sqlstore: scan item of %q: %w", orderID, err)
		}
		if it.UnitPrice, err = parseAmount(price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: load items of %q: %w", orderID, err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var (
		o                       domain.Order
		shipping, total, status string
		createdAt               string
		confirmedAt             sql.NullString
	)
	c := &o.Customer
	err := s.Scan(
		&o.ID, &o.ExternalID, &o.BrandID, &shipping, &total,
		&status, &createdAt, &confirmedAt,
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.Apartment,
		&c.City, &c.State, &c.Country, &c.PostalCode,
	)
	if err != nil {
		return nil, err
	}

	o.Status = domain.OrderStatus(status)
	if o.ShippingCost, err = parseAmount(shipping); err != nil {
		return nil, err
	}
	if o.TotalCost, err = parseAmount(total); err != nil {
		return nil, err
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if confirmedAt.Valid {
		at, err := parseTime(confirmedAt.String)
		if err != nil {
			return nil, err
		}
		o.ConfirmedAt = &at
	}
	o.Items = []domain.LineItem{}
	return &o, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("sqlstore: parse amount %q: %w", s, err)
	}
	return money.Round(d), nil
}

// nullableString returns nil for empty strings so the column stores NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
