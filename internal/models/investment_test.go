package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func qty(n int64) *int64 {
	return &n
}

func validInput() *InvestmentInput {
	return &InvestmentInput{
		Symbol:        "AAPL",
		CompanyName:   "Apple Inc.",
		Quantity:      qty(100),
		PurchasePrice: price("150.00"),
		CurrentPrice:  price("160.00"),
		PurchaseDate:  "2024-01-15",
	}
}

func fields(errs ValidationErrors) []string {
	var out []string
	for _, fe := range errs {
		out = append(out, fe.Field)
	}
	return out
}

func TestInvestmentInput_ValidCreate(t *testing.T) {
	errs := validInput().Validate(true, testNow)
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestInvestmentInput_Normalize(t *testing.T) {
	in := validInput()
	in.Symbol = "  msft "
	in.CompanyName = " Microsoft  "
	in.PurchaseDate = " 2024-01-15\n"
	in.Normalize()

	assert.Equal(t, "MSFT", in.Symbol)
	assert.Equal(t, "Microsoft", in.CompanyName)
	assert.Equal(t, "2024-01-15", in.PurchaseDate)
}

func TestInvestmentInput_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *InvestmentInput)
		field  string
	}{
		{"missing symbol", func(in *InvestmentInput) { in.Symbol = "" }, "symbol"},
		{"long symbol", func(in *InvestmentInput) { in.Symbol = "ABCDEFGHIJK" }, "symbol"},
		{"symbol whitespace", func(in *InvestmentInput) { in.Symbol = "BR K" }, "symbol"},
		{"missing company", func(in *InvestmentInput) { in.CompanyName = "" }, "company_name"},
		{"long company", func(in *InvestmentInput) { in.CompanyName = strings.Repeat("x", 256) }, "company_name"},
		{"missing quantity", func(in *InvestmentInput) { in.Quantity = nil }, "quantity"},
		{"zero quantity", func(in *InvestmentInput) { in.Quantity = qty(0) }, "quantity"},
		{"negative quantity", func(in *InvestmentInput) { in.Quantity = qty(-5) }, "quantity"},
		{"quantity overflow", func(in *InvestmentInput) { in.Quantity = qty(MaxQuantity + 1) }, "quantity"},
		{"missing purchase price", func(in *InvestmentInput) { in.PurchasePrice = nil }, "purchase_price"},
		{"negative purchase price", func(in *InvestmentInput) { in.PurchasePrice = price("-1") }, "purchase_price"},
		{"three decimals", func(in *InvestmentInput) { in.CurrentPrice = price("1.234") }, "current_price"},
		{"price overflow", func(in *InvestmentInput) { in.CurrentPrice = price("100000000.00") }, "current_price"},
		{"missing date", func(in *InvestmentInput) { in.PurchaseDate = "" }, "purchase_date"},
		{"bad date", func(in *InvestmentInput) { in.PurchaseDate = "15/01/2024" }, "purchase_date"},
		{"future date", func(in *InvestmentInput) { in.PurchaseDate = "2027-01-01" }, "purchase_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			errs := in.Validate(true, testNow)
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Error(t, errs.Err())
		})
	}
}

func TestInvestmentInput_UpdateAllowsZeroQuantity(t *testing.T) {
	in := validInput()
	in.Quantity = qty(0)
	assert.Empty(t, in.Validate(false, testNow))

	in.Quantity = qty(-1)
	assert.Equal(t, []string{"quantity"}, fields(in.Validate(false, testNow)))
}

func TestInvestmentInput_BoundaryPrices(t *testing.T) {
	in := validInput()
	in.PurchasePrice = price("0")
	in.CurrentPrice = price("99999999.99")
	assert.Empty(t, in.Validate(true, testNow))

	// trailing zeros beyond the scale are still two-place values
	in.CurrentPrice = price("12.500")
	assert.Empty(t, in.Validate(true, testNow))
}

func TestInvestmentInput_CollectsAllErrors(t *testing.T) {
	errs := (&InvestmentInput{}).Validate(true, testNow)
	assert.ElementsMatch(t,
		[]string{"symbol", "company_name", "quantity", "purchase_price", "current_price", "purchase_date"},
		fields(errs))
	assert.Contains(t, errs.Error(), "symbol: symbol is required")
}

func TestInvestment_ApplyAndHolding(t *testing.T) {
	inv := &Investment{ID: "inv-1", UserID: "u1"}
	inv.Apply(validInput())

	assert.Equal(t, "inv-1", inv.ID)
	assert.Equal(t, "AAPL", inv.Symbol)
	assert.Equal(t, int64(100), inv.Quantity)

	h := inv.Holding()
	assert.Equal(t, int64(100), h.Quantity)
	assert.True(t, h.PurchasePrice.Equal(decimal.RequireFromString("150")))
	assert.True(t, h.CurrentPrice.Equal(decimal.RequireFromString("160")))
}

func TestInvestmentInput_PurchaseDateIsCalendarDay(t *testing.T) {
	aest := time.FixedZone("AEST", 10*60*60)
	earlyMorning := time.Date(2026, 10, 14, 8, 0, 0, 0, aest)

	today := validInput()
	today.PurchaseDate = "2026-10-14"
	assert.Empty(t, today.Validate(true, earlyMorning), "today is not in the future")

	tomorrow := validInput()
	tomorrow.PurchaseDate = "2026-10-15"
	assert.Equal(t, []string{"purchase_date"}, fields(tomorrow.Validate(true, earlyMorning)))
}
