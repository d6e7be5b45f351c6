package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
)

const brandColumns = `id, name, website, contact_email, phone_number, created_at`

func (r *Repository) CreateBrand(ctx context.Context, b *domain.Brand) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO brands (`+brandColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`),
		b.ID, b.Name, b.Website, b.ContactEmail, b.PhoneNumber, formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlstore: insert brand %q: %w", b.ID, err)
	}
	return nil
}

func (r *Repository) GetBrand(ctx context.Context, id string) (*domain.Brand, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+brandColumns+` FROM brands WHERE id = ?`), id)
	b, err := scanBrand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: get brand %q: %w", id, err)
	}
	return b, nil
}

func (r *Repository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+brandColumns+` FROM brands ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list brands: %w", err)
	}
	defer rows.Close()

	out := []domain.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scan brand: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: list brands: %w", err)
	}
	return out, nil
}

// FindBrandByDomain matches the fragment anywhere in the website,
// case-insensitively. The oldest matching brand wins.
func (r *Repository) FindBrandByDomain(ctx context.Context, fragment string) (*domain.Brand, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, domain.ErrBrandNotFound
	}
	pattern := "%" + escapeLike(strings.ToLower(fragment)) + "%"

	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+brandColumns+`
		FROM   brands
		WHERE  LOWER(website) LIKE ? ESCAPE '\'
		ORDER  BY created_at, id
		LIMIT  1`), pattern)
	b, err := scanBrand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: find brand by domain %q: %w", fragment, err)
	}
	return b, nil
}

func scanBrand(s scanner) (*domain.Brand, error) {
	var (
		b         domain.Brand
		createdAt string
	)
	if err := s.Scan(&b.ID, &b.Name, &b.Website, &b.ContactEmail, &b.PhoneNumber, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
