package server

import (
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// Amounts are rendered as fixed two-place decimal strings so clients never
// see float rounding. Percentages stay numeric and unrounded.
const amountScale = 2

type investmentResponse struct {
	ID              string    `json:"id"`
	Symbol          string    `json:"symbol"`
	CompanyName     string    `json:"company_name"`
	Quantity        int64     `json:"quantity"`
	PurchasePrice   string    `json:"purchase_price"`
	CurrentPrice    string    `json:"current_price"`
	PurchaseDate    string    `json:"purchase_date"`
	InvestedValue   string    `json:"invested_value"`
	CurrentValue    string    `json:"current_value"`
	GainLoss        string    `json:"gain_loss"`
	GainLossPercent float64   `json:"gain_loss_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newInvestmentResponse(v *models.ValuedInvestment) investmentResponse {
	return investmentResponse{
		ID:              v.ID,
		Symbol:          v.Symbol,
		CompanyName:     v.CompanyName,
		Quantity:        v.Quantity,
		PurchasePrice:   v.PurchasePrice.StringFixed(amountScale),
		CurrentPrice:    v.CurrentPrice.StringFixed(amountScale),
		PurchaseDate:    v.PurchaseDate,
		InvestedValue:   v.Valuation.InvestedValue.StringFixed(amountScale),
		CurrentValue:    v.Valuation.CurrentValue.StringFixed(amountScale),
		GainLoss:        v.Valuation.GainLoss.StringFixed(amountScale),
		GainLossPercent: v.Valuation.GainLossPercent,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

type holdingResponse struct {
	investmentResponse
	Weight float64 `json:"weight"`
}

type summaryResponse struct {
	TotalInvested   string                `json:"total_invested"`
	TotalValue      string                `json:"total_value"`
	TotalGainLoss   string                `json:"total_gain_loss"`
	GainLossPercent float64               `json:"gain_loss_percent"`
	TotalHoldings   int                   `json:"total_holdings"`
	Currency        string                `json:"currency"`
	Display         models.SummaryDisplay `json:"display"`
}

func newSummaryResponse(s *models.PortfolioSummary) summaryResponse {
	return summaryResponse{
		TotalInvested:   s.TotalInvested.StringFixed(amountScale),
		TotalValue:      s.TotalValue.StringFixed(amountScale),
		TotalGainLoss:   s.TotalGainLoss.StringFixed(amountScale),
		GainLossPercent: s.GainLossPercent,
		TotalHoldings:   s.TotalHoldings,
		Currency:        s.Currency,
		Display:         s.Display,
	}
}

