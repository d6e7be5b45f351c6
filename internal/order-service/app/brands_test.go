package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/adapters/memory"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
)

func TestBrandService(t *testing.T) {
	ctx := context.Background()
	svc := NewBrandService(memory.NewRepository(), func() time.Time { return fixedNow })

	b, err := svc.CreateBrand(ctx, BrandInput{Name: " Nile Store ", Website: "https://nilestore.example.com", ContactEmail: "ops@nilestore.example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Nile Store", b.Name)
	assert.True(t, b.CreatedAt.Equal(fixedNow))

	got, err := svc.GetBrand(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Website, got.Website)

	_, err = svc.GetBrand(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrBrandNotFound)

	_, err = svc.CreateBrand(ctx, BrandInput{Name: "", Website: "x", ContactEmail: "nope"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "contact_email")

	all, err := svc.ListBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
