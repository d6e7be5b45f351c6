package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
)

const customerColumns = `
	c.id, c.first_name, c.last_name, c.email, c.phone, c.address, c.apartment,
	c.city, c.state, c.country, COALESCE(c.postal_code, '')`

func (r *Repository) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT`+customerColumns+`
		FROM   customers c
		WHERE  c.id = ?`), id)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: get customer %q: %w", id, err)
	}
	return c, nil
}

// ListCustomers orders customers by the creation of the order that wrote them.
func (r *Repository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+customerColumns+`
		FROM   customers c
		JOIN   orders o ON o.customer_id = c.id
		ORDER  BY o.created_at, o.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list customers: %w", err)
	}
	defer rows.Close()

	out := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scan customer: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: list customers: %w", err)
	}
	return out, nil
}

func scanCustomer(s scanner) (*domain.Customer, error) {
	var c domain.Customer
	err := s.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.Apartment,
		&c.City, &c.State, &c.Country, &c.PostalCode,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
