package common

import (
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var postgres = &sharedContainer{
	name: "Postgres",
	port: "5432/tcp",
	request: testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "folio",
			"POSTGRES_PASSWORD": "folio",
			"POSTGRES_DB":       "folio",
		},
		// postgres logs readiness twice: once for the init server, once for real
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	},
}

// PostgresContainer is the shared PostgreSQL instance for the test run.
type PostgresContainer struct {
	c *sharedContainer
}

// StartPostgres starts the shared PostgreSQL container on first use.
func StartPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	postgres.start(t)
	return &PostgresContainer{c: postgres}
}

// DSN returns a connection string for the given database.
func (p *PostgresContainer) DSN(database string) string {
	return fmt.Sprintf("postgres://folio:folio@%s:%s/%s?sslmode=disable", p.c.host, p.c.mapped, database)
}
