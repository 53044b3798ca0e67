package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Vitalog/internal/apperror"
	"Vitalog/internal/config"
	"Vitalog/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	health map[string]string
}

func (f *fakeDB) Health() map[string]string  { return f.health }
func (f *fakeDB) Close()                     {}
func (f *fakeDB) Queries() *database.Queries { return nil }
func (f *fakeDB) Pool() *pgxpool.Pool        { return nil }

func newTestServer(health map[string]string) http.Handler {
	s := &Server{
		db:             &fakeDB{health: health},
		allowedOrigins: corsOrigins("http://localhost:3000"),
		startTime:      time.Now(),
	}
	return s.RegisterRoutes()
}

func TestHealthHandler(t *testing.T) {
	h := newTestServer(map[string]string{"status": "up", "total_conns": "2"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	db := body["database"].(map[string]interface{})
	assert.Equal(t, "up", db["status"])
	assert.Equal(t, "2", db["total_conns"])

	system := body["system"].(map[string]interface{})
	assert.NotEmpty(t, system["uptime"])
}

func TestHealthHandlerDatabaseDown(t *testing.T) {
	h := newTestServer(map[string]string{"status": "down", "error": "db down: refused"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	h := newTestServer(map[string]string{"status": "up"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestLoggerMiddlewareStoresLoggerInRequestContext(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	var fromCtx *zerolog.Logger
	handler := LoggerMiddleware(func(c echo.Context) error {
		fromCtx = zerolog.Ctx(c.Request().Context())
		return nil
	})
	require.NoError(t, handler(c))

	assert.NotNil(t, c.Get("logger"))
	assert.NotEmpty(t, c.Get("request_id"))
	require.NotNil(t, fromCtx)
	assert.NotEqual(t, zerolog.Disabled, fromCtx.GetLevel())
}

func TestUnknownRouteRendersJSONError(t *testing.T) {
	h := newTestServer(map[string]string{"status": "up"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body["error"])
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	h := newTestServer(map[string]string{"status": "up"})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blood-tests", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestHTTPErrorHandlerMapsAppErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperror.NewValidationError("age must be between 0 and 150"), http.StatusBadRequest, "age must be between 0 and 150"},
		{apperror.NewNotFoundError("Blood test not found"), http.StatusNotFound, "Blood test not found"},
		{apperror.ErrRateLimited, http.StatusTooManyRequests, "Too many requests, please try again later"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
		{echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		HTTPErrorHandler(tc.err, c)

		assert.Equal(t, tc.status, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.msg, body["error"])
	}
}

func TestNewServerTimeouts(t *testing.T) {
	srv := NewServer(&config.Config{Port: 9090, AppURL: "https://vitalog.example"}, &fakeDB{})
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadTimeout)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
	assert.Equal(t, []string{"https://vitalog.example"}, corsOrigins("https://vitalog.example"))
}
