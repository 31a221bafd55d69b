package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, COALESCE(email, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
	COALESCE(profile_image_url, ''), password_hash, provider, role, created_at, updated_at`

// InternalStore implements interfaces.InternalStore on the users table.
type InternalStore struct {
	pool   *pgxpool.Pool
	logger *common.Logger
}

func NewInternalStore(pool *pgxpool.Pool, logger *common.Logger) *InternalStore {
	return &InternalStore{pool: pool, logger: logger}
}

func scanUser(row pgx.Row) (*models.InternalUser, error) {
	var u models.InternalUser
	err := row.Scan(&u.UserID, &u.Email, &u.FirstName, &u.LastName,
		&u.ProfileImageURL, &u.PasswordHash, &u.Provider, &u.Role, &u.CreatedAt, &u.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *InternalStore) GetUser(ctx context.Context, userID string) (*models.InternalUser, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return u, err
}

func (s *InternalStore) GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	u, err := scanUser(row)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return u, err
}

// SaveUser upserts on id. created_at is kept from the first insert.
func (s *InternalStore) SaveUser(ctx context.Context, user *models.InternalUser) error {
	user.Email = strings.ToLower(user.Email)

	const upsertUserSQL = `
		INSERT INTO users (
			id, email, first_name, last_name, profile_image_url,
			password_hash, provider, role, created_at, updated_at
		)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, COALESCE($9, now()), COALESCE($10, now()))
		ON CONFLICT (id) DO UPDATE SET
			email             = EXCLUDED.email,
			first_name        = EXCLUDED.first_name,
			last_name         = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			password_hash     = EXCLUDED.password_hash,
			provider          = EXCLUDED.provider,
			role              = EXCLUDED.role,
			updated_at        = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, upsertUserSQL,
		user.UserID, user.Email, user.FirstName, user.LastName, user.ProfileImageURL,
		user.PasswordHash, user.Provider, user.Role,
		nullTime(user.CreatedAt), nullTime(user.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// DeleteUser relies on ON DELETE CASCADE to remove the user's investments.
func (s *InternalStore) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("User deleted")
	return nil
}

func (s *InternalStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}

var _ interfaces.InternalStore = (*InternalStore)(nil)
