package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yunae/gamedash/alerts"
	"github.com/yunae/gamedash/cache"
	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/config"
	"github.com/yunae/gamedash/ledger"
	mw "github.com/yunae/gamedash/middleware"
	"github.com/yunae/gamedash/model"
	"github.com/yunae/gamedash/tasks"
	"github.com/yunae/gamedash/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testPassword = "hunter2-admin"
	testAdminKey = "maintenance-key"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	kv     cache.Cache
	token  string
	cfg    *config.Config
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	kv := testutil.SetupTestCache(t)
	logger, _ := zap.NewDevelopment()
	clk := clock.At(now)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.AdminKey = testAdminKey
	cfg.Security = config.SecurityConfig{
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-jwt-secret-32bytes-padded!!",
		JWTTTLH:           time.Hour,
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
	}

	ledgerSvc := ledger.NewService(db, clk, logger)
	taskSvc := tasks.NewService(db, clk, "06:00", logger)
	alertSvc := alerts.NewService(db, clk, logger)

	router := NewRouter(Deps{
		DB:      db,
		Clock:   clk,
		Cache:   kv,
		Ledger:  ledgerSvc,
		Tasks:   taskSvc,
		Alerts:  alertSvc,
		Config:  cfg,
		Logger:  logger,
		SeedDir: t.TempDir(),
	})

	token, err := mw.GenerateToken(cfg.Security.JWTSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "session:"+token, "admin", time.Hour))

	return &testEnv{router: router, db: db, kv: kv, token: token, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return e.do(t, http.MethodGet, path, nil, false)
}

func (e *testEnv) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	return e.do(t, http.MethodPost, path, body, true)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// newAuthOnlyRouter mounts just the login route with the given security
// settings, for cases the full env cannot express.
func newAuthOnlyRouter(env *testEnv, sec config.SecurityConfig) *gin.Engine {
	r := gin.New()
	h := NewAuthHandler(env.kv, sec)
	r.POST("/api/auth/login", h.Login)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dd(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func mkGame(t *testing.T, db *gorm.DB, title string, start time.Time) *model.Game {
	t.Helper()
	g := &model.Game{Title: title, StartDate: start}
	require.NoError(t, db.Create(g).Error)
	return g
}

func mkCurrency(t *testing.T, db *gorm.DB, gameID int64, title string) *model.Currency {
	t.Helper()
	c := &model.Currency{GameID: gameID, Title: title}
	require.NoError(t, db.Create(c).Error)
	return c
}
