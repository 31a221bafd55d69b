// Package storage selects and constructs the configured storage backend.
package storage

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/storage/postgres"
	"github.com/bobmcallan/folio/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendSurrealDB = surrealdb.Backend
	BackendPostgres  = postgres.Backend
)

// NewStorageManager creates a storage manager based on the configuration.
// Supported backends: "surrealdb" (default), "postgres".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = BackendSurrealDB
	}

	switch backend {
	case BackendSurrealDB:
		return surrealdb.NewManager(logger, config)

	case BackendPostgres:
		return postgres.NewManager(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: surrealdb, postgres)", backend)
	}
}
