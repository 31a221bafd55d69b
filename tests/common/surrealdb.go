package common

import (
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SurrealDB root credentials inside the test container.
const (
	SurrealUser = "root"
	SurrealPass = "root"
)

var surreal = &sharedContainer{
	name: "SurrealDB",
	port: "8000/tcp",
	request: testcontainers.ContainerRequest{
		Image:        "surrealdb/surrealdb:v3.0.0",
		ExposedPorts: []string{"8000/tcp"},
		Cmd:          []string{"start", "--user", SurrealUser, "--pass", SurrealPass},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("8000/tcp"),
			wait.ForLog("Started web server"),
		).WithDeadline(60 * time.Second),
	},
}

// SurrealDBContainer is the shared SurrealDB instance for the test run.
type SurrealDBContainer struct {
	c *sharedContainer
}

// StartSurrealDB starts the shared SurrealDB container on first use.
func StartSurrealDB(t *testing.T) *SurrealDBContainer {
	t.Helper()
	surreal.start(t)
	return &SurrealDBContainer{c: surreal}
}

// Address returns the WebSocket RPC address for SurrealDB.
func (s *SurrealDBContainer) Address() string {
	return fmt.Sprintf("ws://%s:%s/rpc", s.c.host, s.c.mapped)
}
