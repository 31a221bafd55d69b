// Package models defines data structures for Folio
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/valuation"
	"github.com/shopspring/decimal"
)

// Column limits mirrored from the investments table.
const (
	MaxSymbolLength      = 10
	MaxCompanyNameLength = 255
	PriceScale           = 2
	PricePrecision       = 10
	MaxQuantity          = 1<<31 - 1
	DateLayout           = "2006-01-02"
)

// maxPrice is the largest value a numeric(10,2) column accepts.
var maxPrice = decimal.New(1, PricePrecision-PriceScale).Sub(decimal.New(1, -PriceScale))

// Investment is a single stock holding owned by a user.
type Investment struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Symbol        string          `json:"symbol"`
	CompanyName   string          `json:"company_name"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PurchaseDate  string          `json:"purchase_date"` // YYYY-MM-DD
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Holding projects the investment into the valuation engine's input.
func (i *Investment) Holding() valuation.Holding {
	return valuation.Holding{
		Quantity:      i.Quantity,
		PurchasePrice: i.PurchasePrice,
		CurrentPrice:  i.CurrentPrice,
	}
}

// Apply copies the submitted fields onto the investment, replacing them.
func (i *Investment) Apply(in *InvestmentInput) {
	i.Symbol = in.Symbol
	i.CompanyName = in.CompanyName
	i.Quantity = deref(in.Quantity)
	i.PurchasePrice = deref(in.PurchasePrice)
	i.CurrentPrice = deref(in.CurrentPrice)
	i.PurchaseDate = in.PurchaseDate
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// InvestmentInput is the client-submitted form of an investment. All fields
// are required, on update too: a PUT replaces the stored holding.
// Prices accept either JSON numbers or strings ("150.00").
type InvestmentInput struct {
	Symbol        string           `json:"symbol"`
	CompanyName   string           `json:"company_name"`
	Quantity      *int64           `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	PurchaseDate  string           `json:"purchase_date"`
}

// Normalize trims text fields and upper-cases the ticker symbol.
func (in *InvestmentInput) Normalize() {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.PurchaseDate = strings.TrimSpace(in.PurchaseDate)
}

// Validate checks the input against the investments table constraints.
// Quantity must be positive when creating; updates may set it to zero.
// now bounds the purchase date, compared as a calendar day in now's zone.
func (in *InvestmentInput) Validate(forCreate bool, now time.Time) ValidationErrors {
	var errs ValidationErrors

	switch {
	case in.Symbol == "":
		errs.Add("symbol", "symbol is required")
	case len(in.Symbol) > MaxSymbolLength:
		errs.Add("symbol", fmt.Sprintf("symbol must be %d characters or fewer", MaxSymbolLength))
	case strings.ContainsAny(in.Symbol, " \t\r\n"):
		errs.Add("symbol", "symbol must not contain whitespace")
	}

	switch {
	case in.CompanyName == "":
		errs.Add("company_name", "company name is required")
	case len(in.CompanyName) > MaxCompanyNameLength:
		errs.Add("company_name", fmt.Sprintf("company name must be %d characters or fewer", MaxCompanyNameLength))
	}

	switch {
	case in.Quantity == nil:
		errs.Add("quantity", "quantity is required")
	case forCreate && *in.Quantity <= 0:
		errs.Add("quantity", "quantity must be a positive integer")
	case *in.Quantity < 0:
		errs.Add("quantity", "quantity must not be negative")
	case *in.Quantity > MaxQuantity:
		errs.Add("quantity", fmt.Sprintf("quantity must not exceed %d", MaxQuantity))
	}

	validatePrice(&errs, "purchase_price", in.PurchasePrice)
	validatePrice(&errs, "current_price", in.CurrentPrice)

	if in.PurchaseDate == "" {
		errs.Add("purchase_date", "purchase date is required")
	} else if date, err := time.ParseInLocation(DateLayout, in.PurchaseDate, now.Location()); err != nil {
		errs.Add("purchase_date", "purchase date must be formatted YYYY-MM-DD")
	} else if date.After(now) {
		errs.Add("purchase_date", "purchase date must not be in the future")
	}

	return errs
}

func validatePrice(errs *ValidationErrors, field string, price *decimal.Decimal) {
	if price == nil {
		errs.Add(field, "price is required")
		return
	}
	p := *price
	switch {
	case p.IsNegative():
		errs.Add(field, "price must not be negative")
	case !p.Equal(p.Round(PriceScale)):
		errs.Add(field, fmt.Sprintf("price must have at most %d decimal places", PriceScale))
	case p.GreaterThan(maxPrice):
		errs.Add(field, fmt.Sprintf("price must not exceed %s", maxPrice.StringFixed(PriceScale)))
	}
}

// ValuedInvestment is an investment together with its derived figures.
type ValuedInvestment struct {
	Investment
	Valuation valuation.Valuation `json:"valuation"`
}

// HoldingRow is one line of the holdings table view.
type HoldingRow struct {
	ValuedInvestment
	Weight float64 `json:"weight"` // share of the portfolio's current value, in percent
}
