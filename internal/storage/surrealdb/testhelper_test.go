package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	tcommon "github.com/bobmcallan/folio/tests/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	surreal "github.com/surrealdb/surrealdb.go"
)

// testDB connects to the shared container with the investment and user
// tables defined in a database of its own.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()
	ctx := context.Background()

	db, err := surreal.New(tcommon.StartSurrealDB(t).Address())
	require.NoError(t, err, "connect")
	t.Cleanup(func() { db.Close(context.Background()) })

	_, err = db.SignIn(ctx, map[string]interface{}{"user": tcommon.SurrealUser, "pass": tcommon.SurrealPass})
	require.NoError(t, err, "sign in")
	require.NoError(t, db.Use(ctx, "folio_test", testDBName("t", t)))
	require.NoError(t, defineTables(ctx, db))
	return db
}

// testDBName strips the "/" that subtests add; SurrealDB rejects it in names.
func testDBName(prefix string, t *testing.T) string {
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("%s_%s_%d", prefix, sanitized, time.Now().UnixNano()%100000)
}

func testLogger() *common.Logger {
	return common.NewSilentLogger()
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
