package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

// TenantResolver decides which brand owns an incoming order.
type TenantResolver struct {
	brands ports.BrandRepository
}

func NewTenantResolver(brands ports.BrandRepository) *TenantResolver {
	return &TenantResolver{brands: brands}
}

// Resolve returns the brand named by explicitID, failing with
// domain.ErrBrandNotFound when it does not exist. Without an explicit id the
// hints are tried in order against brand websites; no match leaves the order
// unresolved and Resolve returns nil, nil.
func (r *TenantResolver) Resolve(ctx context.Context, explicitID string, hints ...string) (*domain.Brand, error) {
	if explicitID != "" {
		b, err := r.brands.GetBrand(ctx, explicitID)
		if err != nil {
			return nil, fmt.Errorf("resolve brand %q: %w", explicitID, err)
		}
		return b, nil
	}

	for _, hint := range hints {
		host := hostOf(hint)
		if host == "" {
			continue
		}
		b, err := r.brands.FindBrandByDomain(ctx, host)
		if errors.Is(err, domain.ErrBrandNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve brand by domain %q: %w", host, err)
		}
		return b, nil
	}
	return nil, nil
}

// hostOf reduces a hint to a bare host: "https://Shop.example.com/" and
// "shop.example.com" both give "shop.example.com".
func hostOf(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return ""
	}
	if strings.Contains(hint, "://") {
		if u, err := url.Parse(hint); err == nil && u.Hostname() != "" {
			hint = u.Hostname()
		}
	}
	hint, _, _ = strings.Cut(hint, "/")
	return strings.TrimPrefix(hint, "www.")
}
