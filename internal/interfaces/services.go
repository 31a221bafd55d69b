// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// InvestmentService manages the authenticated user's investments. The user
// is resolved from the request context.
type InvestmentService interface {
	List(ctx context.Context) ([]*models.ValuedInvestment, error)
	Get(ctx context.Context, id string) (*models.ValuedInvestment, error)
	Create(ctx context.Context, input *models.InvestmentInput) (*models.ValuedInvestment, error)
	Update(ctx context.Context, id string, input *models.InvestmentInput) (*models.ValuedInvestment, error)
	Delete(ctx context.Context, id string) error
}

// PortfolioService derives portfolio-level views from the user's investments.
type PortfolioService interface {
	// Summary returns the aggregate figures, recomputed on every call.
	Summary(ctx context.Context) (*models.PortfolioSummary, error)

	// Holdings returns the table view with each holding's portfolio weight.
	Holdings(ctx context.Context) ([]*models.HoldingRow, error)
}
