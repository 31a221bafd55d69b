// Package postgres implements the Folio stores on PostgreSQL via a pgx pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is the name reported by Manager.Backend.
const Backend = "postgres"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id                varchar PRIMARY KEY,
	email             varchar UNIQUE,
	first_name        varchar,
	last_name         varchar,
	profile_image_url varchar,
	password_hash     varchar NOT NULL DEFAULT '',
	provider          varchar NOT NULL DEFAULT '',
	role              varchar NOT NULL DEFAULT 'user',
	created_at        timestamptz NOT NULL DEFAULT now(),
	updated_at        timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS investments (
	id             varchar PRIMARY KEY,
	user_id        varchar NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	symbol         varchar(10) NOT NULL,
	company_name   varchar(255) NOT NULL,
	quantity       integer NOT NULL,
	purchase_price numeric(10,2) NOT NULL,
	current_price  numeric(10,2) NOT NULL,
	purchase_date  date NOT NULL,
	created_at     timestamptz NOT NULL DEFAULT now(),
	updated_at     timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS investments_user_created_idx ON investments (user_id, created_at);
`

// Manager implements interfaces.StorageManager using PostgreSQL.
type Manager struct {
	pool   *pgxpool.Pool
	logger *common.Logger

	internalStore   *InternalStore
	investmentStore *InvestmentStore
}

// NewManager opens a pool against the configured DSN and ensures the schema.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(config.Storage.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	if config.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = config.Storage.Postgres.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	m := newManager(pool, logger)

	logger.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Int("max_conns", int(poolConfig.MaxConns)).
		Msg("Postgres storage manager initialized")

	return m, nil
}

func newManager(pool *pgxpool.Pool, logger *common.Logger) *Manager {
	return &Manager{
		pool:            pool,
		logger:          logger,
		internalStore:   NewInternalStore(pool, logger),
		investmentStore: NewInvestmentStore(pool, logger),
	}
}

// EnsureSchema creates the users and investments tables when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure postgres schema: %w", err)
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
	m.pool.Close()
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
