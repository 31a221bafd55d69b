package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	tcommon "github.com/bobmcallan/folio/tests/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

type testEnv struct {
	config  *common.Config
	store   *tcommon.MemoryStorage
	server  *Server
	handler http.Handler
}

func newTestEnv(t *testing.T, configure ...func(*common.Config)) *testEnv {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.RateLimit = 0
	for _, fn := range configure {
		fn(cfg)
	}

	store := tcommon.NewMemoryStorage()
	srv := NewServer(app.New(cfg, common.NewSilentLogger(), store))
	return &testEnv{config: cfg, store: store, server: srv, handler: srv.Handler()}
}

// seedUser stores a user and returns a signed token for it.
func (e *testEnv) seedUser(t *testing.T, userID string) string {
	t.Helper()
	user := &models.InternalUser{
		UserID:   userID,
		Email:    userID + "@example.com",
		Provider: ProviderEmail,
		Role:     models.RoleUser,
	}
	require.NoError(t, e.store.InternalStore().SaveUser(context.Background(), user))
	token, err := signJWT(user, &e.config.Auth)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// --- helpers.go ---

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWriteErrorWithCode(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorWithCode(rec, http.StatusNotFound, "Investment not found", CodeNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Investment not found","code":"not_found"}`, rec.Body.String())
}

func TestRequireMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/investments", nil)

	assert.False(t, RequireMethod(rec, req, http.MethodGet, http.MethodPost))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))

	rec = httptest.NewRecorder()
	assert.True(t, RequireMethod(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.MethodGet))
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Symbol string `json:"symbol"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"symbol":"AAPL"}`))
	require.True(t, DecodeJSON(rec, req, &v))
	assert.Equal(t, "AAPL", v.Symbol)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"symbol":`))
	assert.False(t, DecodeJSON(rec, req, &v))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, DecodeJSON(rec, req, &v))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPathParam(t *testing.T) {
	tests := []struct {
		path, prefix, suffix, want string
	}{
		{"/api/investments/abc", "/api/investments/", "", "abc"},
		{"/api/investments/abc/extra", "/api/investments/", "", "abc"},
		{"/api/investments/", "/api/investments/", "", ""},
		{"/api/users/bob/keys", "/api/users/", "/keys", "bob"},
		{"/other", "/api/investments/", "", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		assert.Equal(t, tt.want, PathParam(req, tt.prefix, tt.suffix), tt.path)
	}
}
