package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aaplInput() map[string]interface{} {
	return map[string]interface{}{
		"symbol":         "aapl",
		"company_name":   "Apple Inc.",
		"quantity":       10,
		"purchase_price": "150.00",
		"current_price":  155.5,
		"purchase_date":  "2024-01-15",
	}
}

func createInvestment(t *testing.T, env *testEnv, token string, input map[string]interface{}) map[string]interface{} {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/investments", token, input)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)
}

func TestInvestments_RequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/investments"},
		{http.MethodPost, "/api/investments"},
		{http.MethodGet, "/api/investments/abc"},
		{http.MethodPut, "/api/investments/abc"},
		{http.MethodDelete, "/api/investments/abc"},
	} {
		rec := env.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := env.do(t, http.MethodGet, "/api/investments", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
}

func TestInvestmentCreate(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alice")

	body := createInvestment(t, env, token, aaplInput())

	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, "Apple Inc.", body["company_name"])
	assert.Equal(t, float64(10), body["quantity"])
	assert.Equal(t, "150.00", body["purchase_price"])
	assert.Equal(t, "155.50", body["current_price"])
	assert.Equal(t, "1500.00", body["invested_value"])
	assert.Equal(t, "1555.00", body["current_value"])
	assert.Equal(t, "55.00", body["gain_loss"])
	assert.InDelta(t, 3.6667, body["gain_loss_percent"].(float64), 0.0001)
	assert.NotContains(t, body, "user_id")
	assert.Equal(t, 1, env.store.Count())
}

func TestInvestmentCreate_ValidationDetails(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/investments", token, map[string]interface{}{
		"symbol":         "TOOLONGSYMBOL",
		"company_name":   "",
		"quantity":       0,
		"purchase_price": "-1",
		"current_price":  "1.234",
		"purchase_date":  "2999-01-01",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, CodeValidation, body["code"])
	fields := map[string]bool{}
	for _, d := range body["details"].([]interface{}) {
		fields[d.(map[string]interface{})["field"].(string)] = true
	}
	for _, f := range []string{"symbol", "company_name", "quantity", "purchase_price", "current_price", "purchase_date"} {
		assert.True(t, fields[f], "expected error for %s", f)
	}
	assert.Equal(t, 0, env.store.Count())
}

func TestInvestmentCreate_MissingFieldsAndBadJSON(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/investments", token, map[string]interface{}{"symbol": "AAPL"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/investments", token, `{"symbol":"AAPL","quantity":1.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/investments", token, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvestmentList_ScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	createInvestment(t, env, alice, aaplInput())
	msft := aaplInput()
	msft["symbol"] = "MSFT"
	msft["company_name"] = "Microsoft Corporation"
	createInvestment(t, env, bob, msft)

	rec := env.do(t, http.MethodGet, "/api/investments", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)["investments"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "AAPL", list[0].(map[string]interface{})["symbol"])
}

func TestInvestmentList_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alice")

	rec := env.do(t, http.MethodGet, "/api/investments", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"investments":[]}`, rec.Body.String())
}

func TestInvestmentGet(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	id := createInvestment(t, env, alice, aaplInput())["id"].(string)

	rec := env.do(t, http.MethodGet, "/api/investments/"+id, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decodeBody(t, rec)["id"])

	// Another user's holding is indistinguishable from a missing one.
	rec = env.do(t, http.MethodGet, "/api/investments/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decodeBody(t, rec)["code"])

	rec = env.do(t, http.MethodGet, "/api/investments/missing", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/investments/", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvestmentUpdate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	id := createInvestment(t, env, alice, aaplInput())["id"].(string)

	update := aaplInput()
	update["quantity"] = 20
	update["current_price"] = "140.00"
	rec := env.do(t, http.MethodPut, "/api/investments/"+id, alice, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, float64(20), body["quantity"])
	assert.Equal(t, "3000.00", body["invested_value"])
	assert.Equal(t, "2800.00", body["current_value"])
	assert.Equal(t, "-200.00", body["gain_loss"])

	// Zero quantity is a valid update.
	update["quantity"] = 0
	rec = env.do(t, http.MethodPut, "/api/investments/"+id, alice, update)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["gain_loss_percent"])
}

func TestInvestmentUpdate_Errors(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	id := createInvestment(t, env, alice, aaplInput())["id"].(string)

	rec := env.do(t, http.MethodPut, "/api/investments/"+id, bob, aaplInput())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	bad := aaplInput()
	bad["quantity"] = -1
	rec = env.do(t, http.MethodPut, "/api/investments/"+id, alice, bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/investments/"+id, alice, aaplInput())
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestInvestmentDelete_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	id := createInvestment(t, env, alice, aaplInput())["id"].(string)

	// Bob cannot remove Alice's holding.
	rec := env.do(t, http.MethodDelete, "/api/investments/"+id, bob, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, env.store.Count())

	for i := 0; i < 2; i++ {
		rec = env.do(t, http.MethodDelete, "/api/investments/"+id, alice, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	}
	assert.Equal(t, 0, env.store.Count())
}

func TestInvestments_StorageFailureIs500(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	env.store.Err = errors.New("connection reset")

	rec := env.do(t, http.MethodGet, "/api/investments", alice, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, CodeInternal, body["code"])
	assert.NotContains(t, body["error"], "connection reset")
}
