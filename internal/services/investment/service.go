// Package investment provides CRUD services for a user's stock holdings
package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/valuation"
	"github.com/google/uuid"
)

// Compile-time interface check
var _ interfaces.InvestmentService = (*Service)(nil)

// Service implements InvestmentService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
	now     func() time.Time
}

// NewService creates a new investment service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// furthestZone is the first zone to reach each calendar day. The server does
// not know the client's zone, so a purchase date is only in the future once
// no zone has reached it yet.
var furthestZone = time.FixedZone("UTC+14", 14*60*60)

func (s *Service) dateBound() time.Time {
	return s.now().In(furthestZone)
}

func (s *Service) userID(ctx context.Context) (string, error) {
	id := common.ResolveUserID(ctx)
	if id == "" {
		return "", interfaces.ErrUnauthenticated
	}
	return id, nil
}

// List returns the user's investments with their valuations, oldest first.
func (s *Service) List(ctx context.Context) ([]*models.ValuedInvestment, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	invs, err := s.storage.InvestmentStore().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	out := make([]*models.ValuedInvestment, 0, len(invs))
	for _, inv := range invs {
		v, err := Value(inv)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Get returns one owned investment with its valuation.
func (s *Service) Get(ctx context.Context, id string) (*models.ValuedInvestment, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.storage.InvestmentStore().Get(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investment %s: %w", id, err)
	}
	return Value(inv)
}

// Create validates and stores a new investment.
func (s *Service) Create(ctx context.Context, input *models.InvestmentInput) (*models.ValuedInvestment, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	input.Normalize()
	if err := input.Validate(true, s.dateBound()).Err(); err != nil {
		return nil, err
	}

	now := s.now()
	inv := &models.Investment{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	inv.Apply(input)

	if err := s.storage.InvestmentStore().Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("id", inv.ID).Str("symbol", inv.Symbol).Msg("Investment created")
	return Value(inv)
}

// Update replaces every submitted field of an owned investment.
func (s *Service) Update(ctx context.Context, id string, input *models.InvestmentInput) (*models.ValuedInvestment, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	input.Normalize()
	if err := input.Validate(false, s.dateBound()).Err(); err != nil {
		return nil, err
	}

	store := s.storage.InvestmentStore()
	inv, err := store.Get(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investment %s: %w", id, err)
	}

	inv.Apply(input)
	inv.UpdatedAt = s.now()

	if err := store.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update investment %s: %w", id, err)
	}

	s.logger.Info().Str("user_id", userID).Str("id", id).Str("symbol", inv.Symbol).Msg("Investment updated")
	return Value(inv)
}

// Delete removes an owned investment. Deleting an absent one succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	userID, err := s.userID(ctx)
	if err != nil {
		return err
	}

	if err := s.storage.InvestmentStore().Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to delete investment %s: %w", id, err)
	}

	s.logger.Info().Str("user_id", userID).Str("id", id).Msg("Investment deleted")
	return nil
}

// Value attaches the valuation to an investment.
func Value(inv *models.Investment) (*models.ValuedInvestment, error) {
	v, err := valuation.ValueOf(inv.Holding())
	if err != nil {
		return nil, fmt.Errorf("investment %s: %w", inv.ID, err)
	}
	return &models.ValuedInvestment{Investment: *inv, Valuation: v}, nil
}
