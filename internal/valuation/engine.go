// Package valuation computes invested cost, market value and gain/loss for
// holdings and for a portfolio of holdings.
//
// All money arithmetic is exact decimal. Percentages are derived from the
// exact values and converted to float64 once, unrounded; rounding belongs to
// the presentation helpers in format.go.
package valuation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for holdings outside the valuation domain
// (negative quantity or negative price).
var ErrInvalidInput = errors.New("invalid valuation input")

var hundred = decimal.NewFromInt(100)

// Holding is the valuation view of a position: only the fields that take
// part in the arithmetic.
type Holding struct {
	Quantity      int64
	PurchasePrice decimal.Decimal
	CurrentPrice  decimal.Decimal
}

// Validate reports whether h is inside the valuation domain.
func (h Holding) Validate() error {
	if h.Quantity < 0 {
		return fmt.Errorf("%w: quantity %d is negative", ErrInvalidInput, h.Quantity)
	}
	if h.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase price %s is negative", ErrInvalidInput, h.PurchasePrice)
	}
	if h.CurrentPrice.IsNegative() {
		return fmt.Errorf("%w: current price %s is negative", ErrInvalidInput, h.CurrentPrice)
	}
	return nil
}

// Valuation is the derived figures for a single holding.
type Valuation struct {
	InvestedValue   decimal.Decimal `json:"invested_value"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent float64         `json:"gain_loss_percent"`
}

// PortfolioStats is the aggregate over a collection of holdings.
type PortfolioStats struct {
	TotalInvested   decimal.Decimal `json:"total_invested"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalGainLoss   decimal.Decimal `json:"total_gain_loss"`
	GainLossPercent float64         `json:"gain_loss_percent"`
	TotalHoldings   int             `json:"total_holdings"`
}

// ValueOf computes the valuation of a single holding.
//
// An unfunded position (invested value of exactly zero) reports a zero
// percentage rather than an error or infinity.
func ValueOf(h Holding) (Valuation, error) {
	if err := h.Validate(); err != nil {
		return Valuation{}, err
	}

	qty := decimal.NewFromInt(h.Quantity)
	invested := qty.Mul(h.PurchasePrice)
	current := qty.Mul(h.CurrentPrice)
	gain := current.Sub(invested)

	return Valuation{
		InvestedValue:   invested,
		CurrentValue:    current,
		GainLoss:        gain,
		GainLossPercent: percentOf(gain, invested),
	}, nil
}

// Aggregate computes portfolio totals. Each holding is valued with ValueOf and
// the results summed, so totals always agree with the per-holding figures.
// The percentage is taken over the summed invested value, which weights each
// holding by its stake. An empty collection yields all zeros.
func Aggregate(holdings []Holding) (PortfolioStats, error) {
	stats := PortfolioStats{
		TotalInvested: decimal.Zero,
		TotalValue:    decimal.Zero,
		TotalGainLoss: decimal.Zero,
	}

	for i, h := range holdings {
		v, err := ValueOf(h)
		if err != nil {
			return PortfolioStats{}, fmt.Errorf("holding %d: %w", i, err)
		}
		stats.TotalInvested = stats.TotalInvested.Add(v.InvestedValue)
		stats.TotalValue = stats.TotalValue.Add(v.CurrentValue)
	}

	stats.TotalGainLoss = stats.TotalValue.Sub(stats.TotalInvested)
	stats.GainLossPercent = percentOf(stats.TotalGainLoss, stats.TotalInvested)
	stats.TotalHoldings = len(holdings)
	return stats, nil
}

// percentOf returns gain/base*100, or 0 unless base is strictly positive.
func percentOf(gain, base decimal.Decimal) float64 {
	if !base.IsPositive() {
		return 0
	}
	return gain.Mul(hundred).Div(base).InexactFloat64()
}
