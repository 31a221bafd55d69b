package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Prices and dates travel as text so numeric(10,2) values are exact on both sides.
const investmentColumns = `id, user_id, symbol, company_name, quantity,
	purchase_price::text, current_price::text, purchase_date::text, created_at, updated_at`

// InvestmentStore implements interfaces.InvestmentStore on the investments table.
type InvestmentStore struct {
	pool   *pgxpool.Pool
	logger *common.Logger
}

func NewInvestmentStore(pool *pgxpool.Pool, logger *common.Logger) *InvestmentStore {
	return &InvestmentStore{pool: pool, logger: logger}
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func scanInvestment(row pgx.Row) (*models.Investment, error) {
	var (
		inv               models.Investment
		purchase, current string
	)
	err := row.Scan(&inv.ID, &inv.UserID, &inv.Symbol, &inv.CompanyName, &inv.Quantity,
		&purchase, &current, &inv.PurchaseDate, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if inv.PurchasePrice, err = decimal.NewFromString(purchase); err != nil {
		return nil, fmt.Errorf("investment %s: bad purchase_price %q: %w", inv.ID, purchase, err)
	}
	if inv.CurrentPrice, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("investment %s: bad current_price %q: %w", inv.ID, current, err)
	}
	return &inv, nil
}

func (s *InvestmentStore) ListByUser(ctx context.Context, userID string) ([]*models.Investment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	invs := []*models.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	return invs, nil
}

func (s *InvestmentStore) Get(ctx context.Context, id, userID string) (*models.Investment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = $1 AND user_id = $2`, id, userID)
	inv, err := scanInvestment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return inv, nil
}

func (s *InvestmentStore) Create(ctx context.Context, inv *models.Investment) error {
	now := time.Now()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	if inv.UpdatedAt.IsZero() {
		inv.UpdatedAt = inv.CreatedAt
	}

	const insertSQL = `
		INSERT INTO investments (
			id, user_id, symbol, company_name, quantity,
			purchase_price, current_price, purchase_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::date, $9, $10)
	`
	_, err := s.pool.Exec(ctx, insertSQL,
		inv.ID, inv.UserID, inv.Symbol, inv.CompanyName, inv.Quantity,
		inv.PurchasePrice.StringFixed(models.PriceScale), inv.CurrentPrice.StringFixed(models.PriceScale),
		inv.PurchaseDate, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

func (s *InvestmentStore) Update(ctx context.Context, inv *models.Investment) error {
	inv.UpdatedAt = time.Now()

	const updateSQL = `
		UPDATE investments SET
			symbol         = $3,
			company_name   = $4,
			quantity       = $5,
			purchase_price = $6::numeric,
			current_price  = $7::numeric,
			purchase_date  = $8::date,
			updated_at     = $9
		WHERE id = $1 AND user_id = $2
	`
	tag, err := s.pool.Exec(ctx, updateSQL,
		inv.ID, inv.UserID, inv.Symbol, inv.CompanyName, inv.Quantity,
		inv.PurchasePrice.StringFixed(models.PriceScale), inv.CurrentPrice.StringFixed(models.PriceScale),
		inv.PurchaseDate, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (s *InvestmentStore) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM investments WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	return nil
}

func (s *InvestmentStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM investments WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete investments for user: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

var _ interfaces.InvestmentStore = (*InvestmentStore)(nil)
