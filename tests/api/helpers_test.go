package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/clients/folio"
	"github.com/bobmcallan/folio/internal/server"
	tcommon "github.com/bobmcallan/folio/tests/common"
)

var backends = []string{"surrealdb", "postgres"}

// Env is a Folio server running in-process against a real database.
type Env struct {
	t   *testing.T
	App *app.App
	URL string
}

func uniqueName(t *testing.T) string {
	name := strings.ToLower(strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(t.Name()))
	return fmt.Sprintf("%s_%d", name, time.Now().UnixNano()%1000000)
}

func storageConfig(t *testing.T, backend string) string {
	t.Helper()
	switch backend {
	case "surrealdb":
		sc := tcommon.StartSurrealDB(t)
		return fmt.Sprintf(`[storage]
backend = "surrealdb"
address = %q
namespace = "folio_api"
database = %q
username = %q
password = %q
`, sc.Address(), uniqueName(t), tcommon.SurrealUser, tcommon.SurrealPass)
	case "postgres":
		pc := tcommon.StartPostgres(t)
		ctx := context.Background()
		admin, err := pgx.Connect(ctx, pc.DSN("folio"))
		require.NoError(t, err)
		defer admin.Close(ctx)

		db := uniqueName(t)
		_, err = admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{db}.Sanitize())
		require.NoError(t, err)
		return fmt.Sprintf("[storage]\nbackend = \"postgres\"\n[storage.postgres]\ndsn = %q\n", pc.DSN(db))
	}
	t.Fatalf("unknown backend %s", backend)
	return ""
}

// NewEnv boots the full application from a config file, as folio-server does.
func NewEnv(t *testing.T, backend string) *Env {
	t.Helper()

	cfg := storageConfig(t, backend) + `
[auth]
jwt_secret = "api-test-secret"
rate_limit = 0

[logging]
level = "disabled"
`
	path := filepath.Join(t.TempDir(), "folio.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	a, err := app.NewApp(path)
	require.NoError(t, err)

	ts := httptest.NewServer(server.NewServer(a).Handler())
	t.Cleanup(func() {
		ts.Close()
		a.Close()
	})

	return &Env{t: t, App: a, URL: ts.URL}
}

// HTTPGet performs an unauthenticated GET against the server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.URL + path)
}

// Client returns an API client registered as a fresh user.
func (e *Env) Client(email string) *folio.Client {
	e.t.Helper()
	c := folio.NewClient("", folio.WithBaseURL(e.URL))
	_, err := c.Register(context.Background(), folio.RegisterRequest{
		Email:    email,
		Password: "password123",
	})
	require.NoError(e.t, err)
	return c
}
