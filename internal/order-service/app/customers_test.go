package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
)

func TestCustomerService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCustomerService(f.repo, f.repo)

	res, err := f.svc.Ingest(ctx, IngestRequest{Payload: decode(t, shopifyOrder)})
	require.NoError(t, err)
	customerID := res.Order.Customer.ID
	require.NotEmpty(t, customerID)

	c, err := svc.GetCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", c.Email)

	all, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	orders, err := svc.ListCustomerOrders(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, res.Order.ID, orders[0].ID)

	_, err = svc.ListCustomerOrders(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}
