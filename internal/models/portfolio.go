package models

import "github.com/bobmcallan/folio/internal/valuation"

// PortfolioSummary is the dashboard view: aggregate figures plus their
// formatted display strings. It is derived on every read and never stored.
type PortfolioSummary struct {
	valuation.PortfolioStats
	Currency string         `json:"currency"`
	Display  SummaryDisplay `json:"display"`
}

// SummaryDisplay holds presentation strings for the four summary figures.
type SummaryDisplay struct {
	TotalValue      string `json:"total_value"`
	TotalInvested   string `json:"total_invested"`
	TotalGainLoss   string `json:"total_gain_loss"`
	GainLossPercent string `json:"gain_loss_percent"`
}
