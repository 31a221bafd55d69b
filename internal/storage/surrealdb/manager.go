// Package surrealdb implements the Folio stores on SurrealDB.
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/surrealdb/surrealdb.go"
)

// Backend is the name reported by Manager.Backend.
const Backend = "surrealdb"

// tables are defined on connect (SurrealDB v3 errors on querying non-existent tables)
var tables = []string{"user", "investment"}

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	internalStore   *InternalStore
	investmentStore *InvestmentStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	if err := defineTables(ctx, db); err != nil {
		db.Close(ctx)
		return nil, err
	}

	m := newManager(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func newManager(db *surrealdb.DB, logger *common.Logger) *Manager {
	return &Manager{
		db:              db,
		logger:          logger,
		internalStore:   NewInternalStore(db, logger),
		investmentStore: NewInvestmentStore(db, logger),
	}
}

func defineTables(ctx context.Context, db *surrealdb.DB) error {
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}
	// Lookups never scan: by owner for investments, by email for login.
	indexes := []string{
		"DEFINE INDEX IF NOT EXISTS investment_user ON investment FIELDS user_id",
		"DEFINE INDEX IF NOT EXISTS user_email ON user FIELDS email UNIQUE",
	}
	for _, sql := range indexes {
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return fmt.Errorf("failed to define index: %w", err)
		}
	}
	return nil
}

func (m *Manager) InternalStore() interfaces.InternalStore {
	return m.internalStore
}

func (m *Manager) InvestmentStore() interfaces.InvestmentStore {
	return m.investmentStore
}

func (m *Manager) Backend() string {
	return Backend
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// isNotFoundError reports whether a SurrealDB error means the record is absent.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
