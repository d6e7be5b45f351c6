package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

// BrandInput is the writable part of a brand.
type BrandInput struct {
	Name         string
	Website      string
	ContactEmail string
	PhoneNumber  string
}

type BrandService struct {
	brands ports.BrandRepository
	now    func() time.Time
}

func NewBrandService(brands ports.BrandRepository, now func() time.Time) *BrandService {
	if now == nil {
		now = time.Now
	}
	return &BrandService{brands: brands, now: now}
}

func (s *BrandService) CreateBrand(ctx context.Context, in BrandInput) (*domain.Brand, error) {
	b := &domain.Brand{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Website:      strings.TrimSpace(in.Website),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		CreatedAt:    s.now().UTC(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.brands.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BrandService) GetBrand(ctx context.Context, id string) (*domain.Brand, error) {
	return s.brands.GetBrand(ctx, id)
}

func (s *BrandService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.brands.ListBrands(ctx)
}
