package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// InternalStore implements interfaces.InternalStore on the user table.
type InternalStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewInternalStore(db *surrealdb.DB, logger *common.Logger) *InternalStore {
	return &InternalStore{
		db:     db,
		logger: logger,
	}
}

func (s *InternalStore) GetUser(ctx context.Context, userID string) (*models.InternalUser, error) {
	user, err := surrealdb.Select[models.InternalUser](ctx, s.db, surrealmodels.NewRecordID("user", userID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	if user == nil || user.UserID == "" {
		return nil, interfaces.ErrNotFound
	}
	return user, nil
}

func (s *InternalStore) GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error) {
	sql := "SELECT * FROM user WHERE email = $email LIMIT 1"
	vars := map[string]any{"email": strings.ToLower(email)}

	results, err := surrealdb.Query[[]models.InternalUser](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}

func (s *InternalStore) SaveUser(ctx context.Context, user *models.InternalUser) error {
	user.Email = strings.ToLower(user.Email)

	sql := "UPSERT type::record('user', $id) CONTENT $user"
	vars := map[string]any{"id": user.UserID, "user": user}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.InternalUser](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save user after retries: %w", lastErr)
}

// DeleteUser removes the user's investments before the user record.
func (s *InternalStore) DeleteUser(ctx context.Context, userID string) error {
	removed, err := deleteInvestmentsByUser(ctx, s.db, userID)
	if err != nil {
		return err
	}

	_, err = surrealdb.Delete[models.InternalUser](ctx, s.db, surrealmodels.NewRecordID("user", userID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Int("investments", removed).Msg("User deleted")
	return nil
}

func (s *InternalStore) ListUsers(ctx context.Context) ([]string, error) {
	list, err := surrealdb.Select[[]models.InternalUser](ctx, s.db, surrealmodels.Table("user"))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var userIDs []string
	if list != nil {
		for _, u := range *list {
			if u.UserID != "" {
				userIDs = append(userIDs, u.UserID)
			}
		}
	}
	return userIDs, nil
}

var _ interfaces.InternalStore = (*InternalStore)(nil)
