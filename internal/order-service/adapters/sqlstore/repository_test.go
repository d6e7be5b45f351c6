package sqlstore_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/adapters/sqlstore"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/money"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
	"github.com/Basilalghandour/Bot-Project/internal/pkg/database"
)

func newTestRepository(t *testing.T) *sqlstore.Repository {
	t.Helper()
	db, err := database.Open(database.SQLite, filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, sqlstore.Migrate(context.Background(), db))
	require.NoError(t, sqlstore.Migrate(context.Background(), db), "migrate must be idempotent")
	return sqlstore.NewRepository(db)
}

func sampleOrder(id, externalID, brandID string) *domain.Order {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.NewOrder(id, brandID, domain.Draft{
		ExternalID: externalID,
		Customer: domain.Customer{
			ID:        "cust-" + id,
			FirstName: "Amal",
			Email:     "amal@example.com",
			Phone:     "+20 100 123 4567",
		},
		Items: []domain.LineItem{
			{ProductName: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
			{ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("0.99")},
		},
		ShippingCost: decimal.RequireFromString("2.50"),
		TotalCost:    decimal.RequireFromString("13.49"),
	}, created)
}

func TestCreateAndGetOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateOrder(ctx, sampleOrder("o-1", "SH-1", "")))

	got, err := repo.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "SH-1", got.ExternalID)
	assert.Equal(t, "", got.BrandID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.ConfirmedAt)
	assert.Equal(t, "Amal", got.Customer.FirstName)
	assert.Equal(t, "", got.Customer.PostalCode)
	assert.Equal(t, "2.50", money.Format(got.ShippingCost))
	assert.Equal(t, "13.49", money.Format(got.TotalCost))
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Widget", got.Items[0].ProductName)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "0.99", money.Format(got.Items[1].UnitPrice))

	_, err = repo.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestExternalIDUniqueness(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateOrder(ctx, sampleOrder("o-1", "SH-1", "")))
	err := repo.CreateOrder(ctx, sampleOrder("o-2", "SH-1", ""))
	assert.ErrorIs(t, err, domain.ErrDuplicateExternalID)

	_, err = repo.GetOrder(ctx, "o-2")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound, "failed insert must roll back")

	first, err := repo.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "SH-1", first.ExternalID)

	// Absent external ids are stored as NULL and never collide.
	require.NoError(t, repo.CreateOrder(ctx, sampleOrder("o-3", "", "")))
	require.NoError(t, repo.CreateOrder(ctx, sampleOrder("o-4", "", "")))

	exists, err := repo.ExternalIDExists(ctx, "SH-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTransitionStatus(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateOrder(ctx, sampleOrder("o-1", "", "")))

	at := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	ok, err := repo.TransitionStatus(ctx, "o-1", domain.StatusPending, domain.StatusConfirmed, &at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionStatus(ctx, "o-1", domain.StatusPending, domain.StatusCancelled, nil)
	require.NoError(t, err)
	assert.False(t, ok, "order already left pending")

	got, err := repo.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	assert.True(t, got.ConfirmedAt.Equal(at))

	_, err = repo.TransitionStatus(ctx, "nope", domain.StatusPending, domain.StatusConfirmed, &at)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestTransitionStatusRace(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateOrder(ctx, sampleOrder("o-1", "", "")))

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := domain.StatusConfirmed
			if i%2 == 1 {
				to = domain.StatusCancelled
			}
			ok, err := repo.TransitionStatus(ctx, "o-1", domain.StatusPending, to, nil)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, applied)
}

func TestBrands(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	b1 := &domain.Brand{ID: "b-1", Name: "Nile Store", Website: "https://NileStore.example.com", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b2 := &domain.Brand{ID: "b-2", Name: "Delta 100%", Website: "https://delta_100.example.com", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.CreateBrand(ctx, b1))
	require.NoError(t, repo.CreateBrand(ctx, b2))

	got, err := repo.FindBrandByDomain(ctx, "nilestore.example")
	require.NoError(t, err)
	assert.Equal(t, "b-1", got.ID)

	got, err = repo.FindBrandByDomain(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, "b-1", got.ID, "oldest match wins")

	got, err = repo.FindBrandByDomain(ctx, "delta_1")
	require.NoError(t, err)
	assert.Equal(t, "b-2", got.ID)

	_, err = repo.FindBrandByDomain(ctx, "delta%")
	assert.ErrorIs(t, err, domain.ErrBrandNotFound, "wildcards are matched literally")

	_, err = repo.FindBrandByDomain(ctx, "")
	assert.ErrorIs(t, err, domain.ErrBrandNotFound)

	brands, err := repo.ListBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 2)

	require.NoError(t, repo.CreateOrder(ctx, sampleOrder("o-1", "", "b-1")))
	require.NoError(t, repo.CreateOrder(ctx, sampleOrder("o-2", "", "b-2")))

	orders, err := repo.ListOrders(ctx, ports.OrderFilter{BrandID: "b-2"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-2", orders[0].ID)
	assert.Len(t, orders[0].Items, 2)

	all, err := repo.ListOrders(ctx, ports.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCustomers(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := sampleOrder("o-1", "", "")
	second := sampleOrder("o-2", "", "")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	second.Customer.PostalCode = "11511"
	require.NoError(t, repo.CreateOrder(ctx, first))
	require.NoError(t, repo.CreateOrder(ctx, second))

	c, err := repo.GetCustomer(ctx, "cust-o-2")
	require.NoError(t, err)
	assert.Equal(t, "Amal", c.FirstName)
	assert.Equal(t, "11511", c.PostalCode)

	_, err = repo.GetCustomer(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	customers, err := repo.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "cust-o-1", customers[0].ID)
	assert.Equal(t, "", customers[0].PostalCode)

	orders, err := repo.ListOrders(ctx, ports.OrderFilter{CustomerID: "cust-o-2"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-2", orders[0].ID)

	none, err := repo.ListOrders(ctx, ports.OrderFilter{CustomerID: "cust-o-2", BrandID: "b-1"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
