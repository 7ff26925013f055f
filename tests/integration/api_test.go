package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	httpHandler "fx-payment-processor/internal/adapter/http/handler"
	memStorage "fx-payment-processor/internal/adapter/storage/memory"
	redisStorage "fx-payment-processor/internal/adapter/storage/redis"
	"fx-payment-processor/internal/core/domain"
	"fx-payment-processor/internal/core/ports"
	"fx-payment-processor/internal/service"
	"fx-payment-processor/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminKey = "integration-admin-key"

// testApp builds the full application stack: real HTTP layer, middleware,
// handlers, ledger engine, and in-memory stores, with rate limiting backed
// by miniredis.

type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	seed := map[domain.RatePair]decimal.Decimal{
		{From: "USD", To: "MXN"}: decimal.RequireFromString("18.70"),
		{From: "MXN", To: "USD"}: decimal.RequireFromString("0.053"),
	}

	log := logger.New("debug", false)
	ledger := service.NewLedgerService(
		memStorage.NewWalletStore(),
		memStorage.NewTransactionLog(),
		memStorage.NewRateStore(seed),
		memStorage.NewUserLocker(),
		log,
	)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Ledger:         ledger,
		AdminKey:       testAdminKey,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{redisHealth},
		Logger:         log,
	})

	server := httptest.NewServer(router)

	return &testApp{
		server: server,
		redis:  mr,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.redis.Close()
}

// do executes a JSON request against the test server and decodes the
// response envelope.
func (a *testApp) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func (a *testApp) fund(t *testing.T, user, currency, amount string) {
	t.Helper()
	code, _ := a.do(t, http.MethodPost, "/api/v1/wallets/"+user+"/fund",
		map[string]string{"currency": currency, "amount": amount}, nil)
	require.Equal(t, http.StatusOK, code)
}

func data(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_FundWithdrawFlow(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	code, resp := app.do(t, http.MethodPost, "/api/v1/wallets/alice/fund",
		map[string]string{"currency": "USD", "amount": "100.50"}, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "100.5", data(t, resp)["new_balance"])

	code, resp = app.do(t, http.MethodPost, "/api/v1/wallets/alice/withdraw",
		map[string]string{"currency": "USD", "amount": "40"}, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "60.5", data(t, resp)["new_balance"])

	code, resp = app.do(t, http.MethodGet, "/api/v1/wallets/alice/balances", nil, nil)
	require.Equal(t, http.StatusOK, code)
	balances := data(t, resp)["balances"].(map[string]interface{})
	assert.Equal(t, "60.5", balances["USD"])
}

func TestIntegration_OverdraftRejected(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.fund(t, "alice", "USD", "25")

	code, resp := app.do(t, http.MethodPost, "/api/v1/wallets/alice/withdraw",
		map[string]string{"currency": "USD", "amount": "100"}, nil)
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "WAL_004", resp["error_code"])
	assert.Equal(t, "Insufficient balance. Available: 25 USD", resp["message"])

	// Balance untouched, no transaction recorded for the failed attempt
	code, resp = app.do(t, http.MethodGet, "/api/v1/wallets/alice/balances", nil, nil)
	require.Equal(t, http.StatusOK, code)
	balances := data(t, resp)["balances"].(map[string]interface{})
	assert.Equal(t, "25", balances["USD"])

	code, resp = app.do(t, http.MethodGet, "/api/v1/wallets/alice/transactions", nil, nil)
	require.Equal(t, http.StatusOK, code)
	txs := data(t, resp)["transactions"].([]interface{})
	assert.Len(t, txs, 1)
}

func TestIntegration_ConvertFlow(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.fund(t, "alice", "USD", "1000")

	code, resp := app.do(t, http.MethodPost, "/api/v1/wallets/alice/convert",
		map[string]string{"from_currency": "USD", "to_currency": "MXN", "amount": "100"}, nil)
	require.Equal(t, http.StatusOK, code)
	d := data(t, resp)
	assert.Equal(t, "1870", d["converted_amount"])
	assert.Equal(t, "18.7", d["exchange_rate"])
	assert.Equal(t, "900", d["from_balance"])
	assert.Equal(t, "1870", d["to_balance"])

	// History: fund entry then conversion entry with the applied rate
	code, resp = app.do(t, http.MethodGet, "/api/v1/wallets/alice/transactions", nil, nil)
	require.Equal(t, http.StatusOK, code)
	txs := data(t, resp)["transactions"].([]interface{})
	require.Len(t, txs, 2)

	conv := txs[1].(map[string]interface{})
	assert.Equal(t, "convert", conv["type"])
	assert.Equal(t, "USD", conv["from_currency"])
	assert.Equal(t, "MXN", conv["to_currency"])
	assert.Equal(t, "18.7", conv["exchange_rate"])
	assert.Equal(t, "Converted 100 USD to 1870 MXN", conv["description"])
}

func TestIntegration_ConvertUnknownPair(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.fund(t, "alice", "USD", "100")

	code, resp := app.do(t, http.MethodPost, "/api/v1/wallets/alice/convert",
		map[string]string{"from_currency": "USD", "to_currency": "JPY", "amount": "10"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "WAL_003", resp["error_code"])
}

func TestIntegration_ReconcileAfterActivity(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.fund(t, "alice", "USD", "1000")

	code, _ := app.do(t, http.MethodPost, "/api/v1/wallets/alice/convert",
		map[string]string{"from_currency": "USD", "to_currency": "MXN", "amount": "100"}, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodPost, "/api/v1/wallets/alice/withdraw",
		map[string]string{"currency": "MXN", "amount": "70"}, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp := app.do(t, http.MethodGet, "/api/v1/wallets/alice/reconcile", nil, nil)
	require.Equal(t, http.StatusOK, code)
	d := data(t, resp)
	assert.Equal(t, true, d["balanced"])

	current := d["current_balances"].(map[string]interface{})
	calculated := d["calculated_balances"].(map[string]interface{})
	assert.Equal(t, current, calculated)
	assert.Equal(t, "900", current["USD"])
	assert.Equal(t, "1800", current["MXN"])
}

func TestIntegration_RatesUpdateRequiresAdminKey(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	update := map[string]string{"USD_EUR": "0.92"}

	code, resp := app.do(t, http.MethodPut, "/api/v1/rates", update, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "SEC_001", resp["error_code"])

	code, resp = app.do(t, http.MethodPut, "/api/v1/rates", update,
		map[string]string{"X-Admin-Key": "wrong-key"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "SEC_001", resp["error_code"])

	code, resp = app.do(t, http.MethodPut, "/api/v1/rates", update,
		map[string]string{"X-Admin-Key": testAdminKey})
	require.Equal(t, http.StatusOK, code)
	rates := data(t, resp)["rates"].(map[string]interface{})
	assert.Equal(t, "0.92", rates["USD_EUR"])
	assert.Equal(t, "18.7", rates["USD_MXN"]) // existing pairs survive the merge
}

func TestIntegration_UpdatedRateAppliesToNewConversions(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.fund(t, "alice", "USD", "1000")

	// Convert at the seeded rate, then change the rate
	code, _ := app.do(t, http.MethodPost, "/api/v1/wallets/alice/convert",
		map[string]string{"from_currency": "USD", "to_currency": "MXN", "amount": "100"}, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodPut, "/api/v1/rates",
		map[string]string{"USD_MXN": "20.00"},
		map[string]string{"X-Admin-Key": testAdminKey})
	require.Equal(t, http.StatusOK, code)

	code, resp := app.do(t, http.MethodPost, "/api/v1/wallets/alice/convert",
		map[string]string{"from_currency": "USD", "to_currency": "MXN", "amount": "100"}, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2000", data(t, resp)["converted_amount"])

	// Reconciliation replays each conversion at its recorded rate, so the
	// ledger still balances after the table change.
	code, resp = app.do(t, http.MethodGet, "/api/v1/wallets/alice/reconcile", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(t, resp)["balanced"])
}

func TestIntegration_ValidationErrors(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	cases := []struct {
		name string
		path string
		body map[string]string
	}{
		{"missing currency", "/api/v1/wallets/alice/fund", map[string]string{"amount": "10"}},
		{"bad currency code", "/api/v1/wallets/alice/fund", map[string]string{"currency": "DOLLARS", "amount": "10"}},
		{"same currency convert", "/api/v1/wallets/alice/convert", map[string]string{"from_currency": "USD", "to_currency": "USD", "amount": "10"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := app.do(t, http.MethodPost, tc.path, tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}

	// Zero and negative amounts reach the engine and get WAL_001
	code, resp := app.do(t, http.MethodPost, "/api/v1/wallets/alice/fund",
		map[string]string{"currency": "USD", "amount": "-5"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "WAL_001", resp["error_code"])
}

func TestIntegration_TransactionIDsSharedAcrossUsers(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.fund(t, "alice", "USD", "10")
	app.fund(t, "bob", "USD", "20")
	app.fund(t, "alice", "USD", "30")

	code, resp := app.do(t, http.MethodGet, "/api/v1/wallets/alice/transactions", nil, nil)
	require.Equal(t, http.StatusOK, code)
	txs := data(t, resp)["transactions"].([]interface{})
	require.Len(t, txs, 2)
	assert.Equal(t, "tx_000001", txs[0].(map[string]interface{})["id"])
	assert.Equal(t, "tx_000003", txs[1].(map[string]interface{})["id"])

	code, resp = app.do(t, http.MethodGet, "/api/v1/wallets/bob/transactions", nil, nil)
	require.Equal(t, http.StatusOK, code)
	txs = data(t, resp)["transactions"].([]interface{})
	require.Len(t, txs, 1)
	assert.Equal(t, "tx_000002", txs[0].(map[string]interface{})["id"])
}

func TestIntegration_RateLimitEnforced(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	// The admin group allows 10 requests per minute per client.
	var lastCode int
	for i := 0; i < 11; i++ {
		lastCode, _ = app.do(t, http.MethodPut, "/api/v1/rates",
			map[string]string{"USD_MXN": fmt.Sprintf("18.%02d", i+1)},
			map[string]string{"X-Admin-Key": testAdminKey})
	}
	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
