// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/folio/internal/models"
)

// ErrNotFound is returned by stores when a record does not exist or is not
// owned by the requesting user.
var ErrNotFound = errors.New("not found")

// ErrUnauthenticated is returned by services when the context carries no user.
var ErrUnauthenticated = errors.New("unauthenticated")

// StorageManager coordinates all storage backends
type StorageManager interface {
	// Storage accessors
	InternalStore() InternalStore
	InvestmentStore() InvestmentStore

	// Backend returns the backend name ("surrealdb" or "postgres").
	Backend() string

	// Lifecycle
	Close() error
}

// InternalStore manages user accounts.
type InternalStore interface {
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	// SaveUser inserts or replaces the user keyed on UserID.
	SaveUser(ctx context.Context, user *models.InternalUser) error
	// DeleteUser removes the user and every investment they own.
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)
}

// InvestmentStore persists investments. Every operation is scoped to the
// owning user; a record owned by someone else behaves as absent.
type InvestmentStore interface {
	// ListByUser returns the user's investments ordered by creation time.
	ListByUser(ctx context.Context, userID string) ([]*models.Investment, error)
	Get(ctx context.Context, id, userID string) (*models.Investment, error)
	Create(ctx context.Context, inv *models.Investment) error
	// Update replaces the submitted fields and bumps UpdatedAt.
	// Returns ErrNotFound when no matching owned record exists.
	Update(ctx context.Context, inv *models.Investment) error
	// Delete is idempotent: deleting an absent record is not an error.
	Delete(ctx context.Context, id, userID string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
}
