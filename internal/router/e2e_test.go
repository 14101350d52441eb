//go:build integration

package router_test

// End-to-end tests against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/...

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sebassmtz/backend-stockpro/internal/config"
	"github.com/sebassmtz/backend-stockpro/internal/infra"
	"github.com/sebassmtz/backend-stockpro/internal/router"
	"github.com/sebassmtz/backend-stockpro/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	e2eEmail    = "admin@e2e.test"
	e2ePassword = "stockpro2024"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body io.Reader, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	rdb    *redis.Client
	token  string
	userID string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("stockpro_test"),
		tcPostgres.WithUsername("stockpro"),
		tcPostgres.WithPassword("stockpro"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                          "test",
		DatabaseURL:                  pgURL,
		RedisURL:                     rdURL,
		JWTSecret:                    "test-secret-key",
		JWTExpirationHours:           8,
		LockExpirySeconds:            5,
		ReportStoragePath:            t.TempDir(),
		ReportNotifyEmail:            "owner@e2e.test",
		EnforceSingleActiveTurn:      true,
		AllowWithdrawalsOnClosedTurn: true,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.CloseDatabase(db) })
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(e2ePassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`INSERT INTO users (username, email, password, is_active) VALUES ('admin', ?, ?, true)`,
		e2eEmail, string(hash),
	).Error)

	locker := infra.NewLockManager(rdb, infra.LockOptions{Expiry: 5 * time.Second})
	svcs := router.NewServices(cfg, db, locker, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(router.New(cfg, db, rdb, infra.NewMailer(cfg), svcs))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, http.MethodPost, "/api/auth/login",
		jsonBody(t, map[string]string{"email": e2eEmail, "password": e2ePassword}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, db: db, rdb: rdb, token: login.AccessToken, userID: login.User.ID}
}

type turnBody struct {
	ID   string `json:"id"`
	Turn struct {
		ID        string           `json:"id"`
		IsActive  bool             `json:"is_active"`
		FinalCash *decimal.Decimal `json:"final_cash"`
	} `json:"turn"`
}

func (e *testEnv) createRegister(t *testing.T, name string) string {
	t.Helper()
	resp := do(t, e.server, http.MethodPost, "/api/cashRegister",
		jsonBody(t, map[string]string{"name": name, "location": "Front desk"}), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &reg)
	return reg.ID
}

func (e *testEnv) openTurn(t *testing.T, registerID string, base float64, start time.Time) string {
	t.Helper()
	resp := do(t, e.server, http.MethodPost, "/api/cashRegister/"+registerID,
		jsonBody(t, map[string]any{"date_time_start": start, "base_cash": base, "id_user": e.userID}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body turnBody
	decodeJSON(t, resp, &body)
	require.True(t, body.Turn.IsActive)
	return body.Turn.ID
}

func closeBody(turnID string, end time.Time, finalCash float64) map[string]any {
	return map[string]any{
		"id_turn":       turnID,
		"date_time_end": end,
		"final_cash":    finalCash,
		"admin_email":   e2eEmail,
		"password":      e2ePassword,
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_TurnLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	start := time.Now().UTC().Add(-8 * time.Hour).Truncate(time.Second)

	registerID := env.createRegister(t, "Main till")
	turnID := env.openTurn(t, registerID, 50000, start)

	// a second open on the same register is rejected
	resp := do(t, env.server, http.MethodPost, "/api/cashRegister/"+registerID,
		jsonBody(t, map[string]any{"date_time_start": start, "base_cash": 1, "id_user": env.userID}), "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/api/cashRegister/turn/"+turnID,
		jsonBody(t, map[string]any{"withdrawal_date": start.Add(time.Hour), "value": 10000}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, env.db.Exec(
		`INSERT INTO sales (date_sale, price_sale, id_turn) VALUES (?, 20000, ?)`, start.Add(2*time.Hour), turnID,
	).Error)

	// wrong password leaves the turn open
	bad := closeBody(turnID, start.Add(8*time.Hour), 55000)
	bad["password"] = "nope"
	resp = do(t, env.server, http.MethodPut, "/api/cashRegister/"+registerID, jsonBody(t, bad), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	body := closeBody(turnID, start.Add(8*time.Hour), 55000)
	body["value"] = -5000
	body["description"] = "short"
	resp = do(t, env.server, http.MethodPut, "/api/cashRegister/"+registerID, jsonBody(t, body), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var closed turnBody
	decodeJSON(t, resp, &closed)
	assert.False(t, closed.Turn.IsActive)
	require.NotNil(t, closed.Turn.FinalCash)
	assert.True(t, closed.Turn.FinalCash.Equal(decimal.NewFromInt(55000)))

	resp = do(t, env.server, http.MethodPut, "/api/cashRegister/"+registerID, jsonBody(t, body), "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/api/cashRegister/turn/"+turnID+"/summary", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		SalesTotal   decimal.Decimal  `json:"sales_total"`
		ExpectedCash decimal.Decimal  `json:"expected_cash"`
		Difference   *decimal.Decimal `json:"difference"`
		Imbalances   []struct {
			Description string `json:"description"`
		} `json:"imbalances"`
	}
	decodeJSON(t, resp, &summary)
	assert.True(t, summary.SalesTotal.Equal(decimal.NewFromInt(20000)))
	assert.True(t, summary.ExpectedCash.Equal(decimal.NewFromInt(60000)))
	require.NotNil(t, summary.Difference)
	assert.True(t, summary.Difference.Equal(decimal.NewFromInt(-5000)))
	require.Len(t, summary.Imbalances, 1)
	assert.Equal(t, "short", summary.Imbalances[0].Description)

	n, err := env.rdb.LLen(ctx, worker.QueueTurnReport).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	resp = do(t, env.server, http.MethodGet, "/api/cashRegister/turn/"+turnID+"/report", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp = do(t, env.server, http.MethodDelete, "/api/cashRegister/"+registerID, nil, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/api/cashRegister/"+registerID, nil, env.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	var orphaned int64
	require.NoError(t, env.db.Raw(`SELECT COUNT(*) FROM sales WHERE id_turn IS NULL`).Scan(&orphaned).Error)
	assert.EqualValues(t, 1, orphaned)
}

func TestE2E_ConcurrentClosesOnlyOneWins(t *testing.T) {
	env := setupTestEnv(t)
	start := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	registerID := env.createRegister(t, "Race till")
	turnID := env.openTurn(t, registerID, 100, start)

	const n = 4
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, http.MethodPut, "/api/cashRegister/"+registerID,
				jsonBody(t, closeBody(turnID, start.Add(time.Hour), float64(100+i))), "")
			codes[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, c := range codes {
		if c == http.StatusOK {
			ok++
		} else {
			assert.Equal(t, http.StatusConflict, c)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestE2E_ProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/cashRegister"},
		{http.MethodGet, "/api/cashRegister/withdrawals"},
		{http.MethodGet, "/api/cashRegister/" + uuid.NewString()},
		{http.MethodPost, "/api/cashRegister"},
		{http.MethodPut, "/api/cashRegister"},
		{http.MethodGet, "/api/auth/me"},
	} {
		resp := do(t, env.server, tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.method+" "+tc.path)
		resp.Body.Close()
	}

	resp := do(t, env.server, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
