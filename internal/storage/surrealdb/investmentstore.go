package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/shopspring/decimal"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// investmentSelectFields omits the record id; investment_id carries the key.
const investmentSelectFields = `investment_id, user_id, symbol, company_name, quantity,
	purchase_price, current_price, purchase_date, created_at, updated_at`

// investmentRecord is the stored shape. Prices are kept as decimal strings
// so they round-trip without float conversion.
type investmentRecord struct {
	InvestmentID  string    `json:"investment_id"`
	UserID        string    `json:"user_id"`
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name"`
	Quantity      int64     `json:"quantity"`
	PurchasePrice string    `json:"purchase_price"`
	CurrentPrice  string    `json:"current_price"`
	PurchaseDate  string    `json:"purchase_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toRecord(inv *models.Investment) investmentRecord {
	return investmentRecord{
		InvestmentID:  inv.ID,
		UserID:        inv.UserID,
		Symbol:        inv.Symbol,
		CompanyName:   inv.CompanyName,
		Quantity:      inv.Quantity,
		PurchasePrice: inv.PurchasePrice.StringFixed(models.PriceScale),
		CurrentPrice:  inv.CurrentPrice.StringFixed(models.PriceScale),
		PurchaseDate:  inv.PurchaseDate,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func (r *investmentRecord) toModel() (*models.Investment, error) {
	purchase, err := decimal.NewFromString(r.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("investment %s: bad purchase_price %q: %w", r.InvestmentID, r.PurchasePrice, err)
	}
	current, err := decimal.NewFromString(r.CurrentPrice)
	if err != nil {
		return nil, fmt.Errorf("investment %s: bad current_price %q: %w", r.InvestmentID, r.CurrentPrice, err)
	}
	return &models.Investment{
		ID:            r.InvestmentID,
		UserID:        r.UserID,
		Symbol:        r.Symbol,
		CompanyName:   r.CompanyName,
		Quantity:      r.Quantity,
		PurchasePrice: purchase,
		CurrentPrice:  current,
		PurchaseDate:  r.PurchaseDate,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

// InvestmentStore implements interfaces.InvestmentStore on the investment table.
type InvestmentStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewInvestmentStore(db *surrealdb.DB, logger *common.Logger) *InvestmentStore {
	return &InvestmentStore{db: db, logger: logger}
}

func investmentRID(id string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("investment", id)
}

func (s *InvestmentStore) query(ctx context.Context, sql string, vars map[string]any) ([]*models.Investment, error) {
	results, err := surrealdb.Query[[]investmentRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, err
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	rows := (*results)[0].Result
	invs := make([]*models.Investment, 0, len(rows))
	for i := range rows {
		inv, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, nil
}

func (s *InvestmentStore) ListByUser(ctx context.Context, userID string) ([]*models.Investment, error) {
	sql := "SELECT " + investmentSelectFields + " FROM investment WHERE user_id = $user_id ORDER BY created_at ASC"
	invs, err := s.query(ctx, sql, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	if invs == nil {
		invs = []*models.Investment{}
	}
	return invs, nil
}

func (s *InvestmentStore) Get(ctx context.Context, id, userID string) (*models.Investment, error) {
	sql := "SELECT " + investmentSelectFields + " FROM $rid WHERE user_id = $user_id"
	vars := map[string]any{"rid": investmentRID(id), "user_id": userID}

	invs, err := s.query(ctx, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	if len(invs) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return invs[0], nil
}

func (s *InvestmentStore) Create(ctx context.Context, inv *models.Investment) error {
	now := time.Now()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	if inv.UpdatedAt.IsZero() {
		inv.UpdatedAt = inv.CreatedAt
	}

	sql := "CREATE $rid CONTENT $record"
	vars := map[string]any{"rid": investmentRID(inv.ID), "record": toRecord(inv)}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

func (s *InvestmentStore) Update(ctx context.Context, inv *models.Investment) error {
	inv.UpdatedAt = time.Now()
	rec := toRecord(inv)

	// UPDATE never creates; the owner filter makes foreign records invisible.
	sql := `UPDATE $rid SET
		symbol = $symbol, company_name = $company_name, quantity = $quantity,
		purchase_price = $purchase_price, current_price = $current_price,
		purchase_date = $purchase_date, updated_at = $updated_at
		WHERE user_id = $user_id`
	vars := map[string]any{
		"rid":            investmentRID(inv.ID),
		"user_id":        inv.UserID,
		"symbol":         rec.Symbol,
		"company_name":   rec.CompanyName,
		"quantity":       rec.Quantity,
		"purchase_price": rec.PurchasePrice,
		"current_price":  rec.CurrentPrice,
		"purchase_date":  rec.PurchaseDate,
		"updated_at":     rec.UpdatedAt,
	}

	results, err := surrealdb.Query[[]investmentRecord](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to update investment: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (s *InvestmentStore) Delete(ctx context.Context, id, userID string) error {
	sql := "DELETE $rid WHERE user_id = $user_id"
	vars := map[string]any{"rid": investmentRID(id), "user_id": userID}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	return nil
}

func (s *InvestmentStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	return deleteInvestmentsByUser(ctx, s.db, userID)
}

func deleteInvestmentsByUser(ctx context.Context, db *surrealdb.DB, userID string) (int, error) {
	sql := "DELETE investment WHERE user_id = $user_id RETURN BEFORE"
	results, err := surrealdb.Query[[]investmentRecord](ctx, db, sql, map[string]any{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete investments for user: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return 0, nil
	}
	return len((*results)[0].Result), nil
}

var _ interfaces.InvestmentStore = (*InvestmentStore)(nil)
