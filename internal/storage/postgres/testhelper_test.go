package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	tcommon "github.com/bobmcallan/folio/tests/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

// testDatabase creates a fresh database per test on the shared container
// and returns its DSN.
func testDatabase(t *testing.T) string {
	t.Helper()

	pc := tcommon.StartPostgres(t)
	ctx := context.Background()

	admin, err := pgx.Connect(ctx, pc.DSN("folio"))
	if err != nil {
		t.Fatalf("connect to Postgres: %v", err)
	}
	defer admin.Close(ctx)

	sanitized := strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(strings.ToLower(t.Name()))
	if len(sanitized) > 40 {
		sanitized = sanitized[:40]
	}
	name := fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000)
	if _, err := admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		t.Fatalf("create database %s: %v", name, err)
	}

	return pc.DSN(name)
}

// testPool returns a pool on a fresh database with the schema applied.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDatabase(t))
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return pool
}

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

func seedUser(t *testing.T, store *InternalStore, userID string) {
	t.Helper()
	err := store.SaveUser(context.Background(), &models.InternalUser{
		UserID:   userID,
		Email:    userID + "@test.com",
		Provider: "email",
		Role:     models.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", userID, err)
	}
}

func testInvestment(id, userID, symbol string, created time.Time) *models.Investment {
	return &models.Investment{
		ID:            id,
		UserID:        userID,
		Symbol:        symbol,
		CompanyName:   symbol + " Corp",
		Quantity:      100,
		PurchasePrice: decimal.RequireFromString("150.00"),
		CurrentPrice:  decimal.RequireFromString("160.00"),
		PurchaseDate:  "2024-01-15",
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}
