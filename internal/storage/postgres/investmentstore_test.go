package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) (*InternalStore, *InvestmentStore) {
	t.Helper()
	pool := testPool(t)
	return NewInternalStore(pool, testLogger()), NewInvestmentStore(pool, testLogger())
}

func TestInvestmentCreateAndGet(t *testing.T) {
	users, store := newStores(t)
	ctx := context.Background()
	seedUser(t, users, "u1")

	require.NoError(t, store.Create(ctx, testInvestment("inv-1", "u1", "AAPL", testNow)))

	got, err := store.Get(ctx, "inv-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, "AAPL Corp", got.CompanyName)
	assert.Equal(t, int64(100), got.Quantity)
	assert.Equal(t, "150.00", got.PurchasePrice.StringFixed(2))
	assert.Equal(t, "160.00", got.CurrentPrice.StringFixed(2))
	assert.Equal(t, "2024-01-15", got.PurchaseDate)
	assert.True(t, testNow.Equal(got.CreatedAt))
}

func TestInvestmentCreateUnknownUser(t *testing.T) {
	_, store := newStores(t)

	err := store.Create(context.Background(), testInvestment("inv-1", "ghost", "AAPL", testNow))
	assert.Error(t, err)
}

func TestInvestmentGetScopedToOwner(t *testing.T) {
	users, store := newStores(t)
	ctx := context.Background()
	seedUser(t, users, "owner")
	seedUser(t, users, "intruder")

	require.NoError(t, store.Create(ctx, testInvestment("inv-1", "owner", "AAPL", testNow)))

	_, err := store.Get(ctx, "inv-1", "intruder")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	_, err = store.Get(ctx, "missing", "owner")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestInvestmentListByUserOrdered(t *testing.T) {
	users, store := newStores(t)
	ctx := context.Background()
	seedUser(t, users, "u1")
	seedUser(t, users, "u2")

	require.NoError(t, store.Create(ctx, testInvestment("c", "u1", "CCC", testNow.Add(2*time.Hour))))
	require.NoError(t, store.Create(ctx, testInvestment("a", "u1", "AAA", testNow)))
	require.NoError(t, store.Create(ctx, testInvestment("b", "u1", "BBB", testNow.Add(time.Hour))))
	require.NoError(t, store.Create(ctx, testInvestment("x", "u2", "XXX", testNow)))

	invs, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, invs, 3)
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, []string{invs[0].Symbol, invs[1].Symbol, invs[2].Symbol})

	empty, err := store.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestInvestmentUpdate(t *testing.T) {
	users, store := newStores(t)
	ctx := context.Background()
	seedUser(t, users, "u1")

	inv := testInvestment("inv-1", "u1", "AAPL", testNow)
	require.NoError(t, store.Create(ctx, inv))

	inv.Quantity = 0
	inv.CurrentPrice = decimal.RequireFromString("12.34")
	inv.PurchaseDate = "2023-12-31"
	require.NoError(t, store.Update(ctx, inv))

	got, err := store.Get(ctx, "inv-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
	assert.Equal(t, "12.34", got.CurrentPrice.StringFixed(2))
	assert.Equal(t, "2023-12-31", got.PurchaseDate)
	assert.True(t, got.UpdatedAt.After(testNow))
	assert.True(t, testNow.Equal(got.CreatedAt))
}

func TestInvestmentUpdateNotFound(t *testing.T) {
	users, store := newStores(t)
	ctx := context.Background()
	seedUser(t, users, "owner")

	assert.ErrorIs(t, store.Update(ctx, testInvestment("missing", "owner", "AAPL", testNow)), interfaces.ErrNotFound)

	require.NoError(t, store.Create(ctx, testInvestment("inv-1", "owner", "AAPL", testNow)))
	assert.ErrorIs(t, store.Update(ctx, testInvestment("inv-1", "intruder", "HACK", testNow)), interfaces.ErrNotFound)

	got, err := store.Get(ctx, "inv-1", "owner")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
}

func TestInvestmentDelete(t *testing.T) {
	users, store := newStores(t)
	ctx := context.Background()
	seedUser(t, users, "u1")

	require.NoError(t, store.Create(ctx, testInvestment("inv-1", "u1", "AAPL", testNow)))

	require.NoError(t, store.Delete(ctx, "inv-1", "intruder"))
	_, err := store.Get(ctx, "inv-1", "u1")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "inv-1", "u1"))
	_, err = store.Get(ctx, "inv-1", "u1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "inv-1", "u1"))
}

func TestInvestmentDeleteByUser(t *testing.T) {
	users, store := newStores(t)
	ctx := context.Background()
	seedUser(t, users, "u1")
	seedUser(t, users, "u2")

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Create(ctx, testInvestment(fmt.Sprintf("u1-%d", i), "u1", "AAPL", testNow)))
	}
	require.NoError(t, store.Create(ctx, testInvestment("u2-0", "u2", "MSFT", testNow)))

	n, err := store.DeleteByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	left, err := store.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
