// Package portfolio provides the portfolio summary and holdings views
package portfolio

import (
	"context"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/investment"
	"github.com/bobmcallan/folio/internal/valuation"
	"github.com/shopspring/decimal"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// Service implements PortfolioService. Every call reads the user's current
// holdings; nothing is cached.
type Service struct {
	storage  interfaces.StorageManager
	currency string
	logger   *common.Logger
}

// NewService creates a new portfolio service; currency drives display strings.
func NewService(storage interfaces.StorageManager, currency string, logger *common.Logger) *Service {
	return &Service{
		storage:  storage,
		currency: currency,
		logger:   logger,
	}
}

func (s *Service) load(ctx context.Context) ([]*models.Investment, error) {
	userID := common.ResolveUserID(ctx)
	if userID == "" {
		return nil, interfaces.ErrUnauthenticated
	}
	invs, err := s.storage.InvestmentStore().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return invs, nil
}

// Summary aggregates the user's holdings into portfolio totals.
func (s *Service) Summary(ctx context.Context) (*models.PortfolioSummary, error) {
	invs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	holdings := make([]valuation.Holding, len(invs))
	for i, inv := range invs {
		holdings[i] = inv.Holding()
	}

	stats, err := valuation.Aggregate(holdings)
	if err != nil {
		return nil, fmt.Errorf("failed to value portfolio: %w", err)
	}

	s.logger.Debug().
		Str("user_id", common.ResolveUserID(ctx)).
		Int("holdings", stats.TotalHoldings).
		Str("total_value", stats.TotalValue.StringFixed(2)).
		Msg("Portfolio summary computed")

	return &models.PortfolioSummary{
		PortfolioStats: stats,
		Currency:       s.currency,
		Display: models.SummaryDisplay{
			TotalValue:      valuation.FormatMoney(stats.TotalValue, s.currency),
			TotalInvested:   valuation.FormatMoney(stats.TotalInvested, s.currency),
			TotalGainLoss:   valuation.FormatSignedMoney(stats.TotalGainLoss, s.currency),
			GainLossPercent: valuation.FormatPercent(stats.GainLossPercent),
		},
	}, nil
}

// Holdings returns the table view: each holding valued, with its weight as
// a percent of the portfolio's current value.
func (s *Service) Holdings(ctx context.Context) ([]*models.HoldingRow, error) {
	invs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*models.HoldingRow, 0, len(invs))
	total := decimal.Zero
	for _, inv := range invs {
		v, err := investment.Value(inv)
		if err != nil {
			return nil, err
		}
		total = total.Add(v.Valuation.CurrentValue)
		rows = append(rows, &models.HoldingRow{ValuedInvestment: *v})
	}

	if total.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for _, r := range rows {
			r.Weight = r.Valuation.CurrentValue.Mul(hundred).Div(total).InexactFloat64()
		}
	}
	return rows, nil
}
