package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Vitalog/internal/database"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	database.Querier

	users         map[string]database.User
	tokens        map[string]database.UserRefreshToken
	revoked       []pgtype.UUID
	revokedAllFor []string
	created       []database.CreateRefreshTokenParams
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		users:  map[string]database.User{},
		tokens: map[string]database.UserRefreshToken{},
	}
}

func (f *fakeQuerier) GetUserByID(_ context.Context, userID string) (database.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeQuerier) CreateRefreshToken(_ context.Context, arg database.CreateRefreshTokenParams) (database.UserRefreshToken, error) {
	rt := database.UserRefreshToken{
		ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
		UserID:    arg.UserID,
		TokenHash: arg.TokenHash,
		ExpiresAt: arg.ExpiresAt,
	}
	f.tokens[arg.TokenHash] = rt
	f.created = append(f.created, arg)
	return rt, nil
}

func (f *fakeQuerier) GetRefreshTokenByHash(_ context.Context, hash string) (database.UserRefreshToken, error) {
	rt, ok := f.tokens[hash]
	if !ok || rt.RevokedAt.Valid {
		return database.UserRefreshToken{}, pgx.ErrNoRows
	}
	return rt, nil
}

func (f *fakeQuerier) RevokeRefreshToken(_ context.Context, id pgtype.UUID) error {
	f.revoked = append(f.revoked, id)
	for k, rt := range f.tokens {
		if rt.ID == id {
			rt.RevokedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
			f.tokens[k] = rt
		}
	}
	return nil
}

func (f *fakeQuerier) RevokeAllUserRefreshTokens(_ context.Context, userID string) error {
	f.revokedAllFor = append(f.revokedAllFor, userID)
	return nil
}

var testUser = database.User{
	UserID:   "user-1",
	Provider: "google",
	Email:    pgtype.Text{String: "ada@example.com", Valid: true},
	Name:     pgtype.Text{String: "Ada", Valid: true},
}

func setup(t *testing.T) *fakeQuerier {
	t.Helper()
	q := newFakeQuerier()
	q.users[testUser.UserID] = testUser
	configure(q, "test-secret", "http://localhost:8080/", false)
	return q
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, c.Get("user_id").(string))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	setup(t)

	token, err := generateAccessToken(&testUser)
	require.NoError(t, err)

	claims, err := parseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestParseAccessTokenRejectsOtherSecret(t *testing.T) {
	setup(t)
	token, err := generateAccessToken(&testUser)
	require.NoError(t, err)

	configure(newFakeQuerier(), "another-secret", "http://localhost", false)
	_, err = parseAccessToken(token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	setup(t)
	claims := &JwtCustomClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    tokenIssuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sessionSecret)
	require.NoError(t, err)

	_, err = parseAccessToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJwtAuthMiddlewareBearer(t *testing.T) {
	setup(t)
	token, err := generateAccessToken(&testUser)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	require.NoError(t, JwtAuthMiddleware(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestJwtAuthMiddlewareCookie(t *testing.T) {
	setup(t)
	token, err := generateAccessToken(&testUser)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: accessCookieName, Value: token})
	rec := httptest.NewRecorder()

	require.NoError(t, JwtAuthMiddleware(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJwtAuthMiddlewareRejectsInvalidBearerWithJSON(t *testing.T) {
	setup(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	require.NoError(t, JwtAuthMiddleware(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestJwtAuthMiddlewareRedirectsBrowserWithoutToken(t *testing.T) {
	setup(t)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), rec)

	require.NoError(t, JwtAuthMiddleware(okHandler)(c))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestJwtAuthMiddlewareUnknownUser(t *testing.T) {
	setup(t)
	ghost := database.User{UserID: "ghost"}
	token, err := generateAccessToken(&ghost)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	require.NoError(t, JwtAuthMiddleware(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	q := setup(t)

	first, err := generateAndStoreRefreshToken(context.Background(), "user-1", clientInfo{})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+first)
	rec := httptest.NewRecorder()

	require.NoError(t, RefreshHandler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, first, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Len(t, q.revoked, 1)

	// The old token is single use.
	_, _, err = useRefreshToken(context.Background(), first, clientInfo{})
	assert.Error(t, err)

	_, _, err = useRefreshToken(context.Background(), resp.RefreshToken, clientInfo{})
	assert.NoError(t, err)
}

func TestRefreshWithCookieSetsCookies(t *testing.T) {
	setup(t)
	token, err := generateAndStoreRefreshToken(context.Background(), "user-1", clientInfo{})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: token})
	rec := httptest.NewRecorder()

	require.NoError(t, RefreshHandler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	names := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		names[ck.Name] = true
		assert.True(t, ck.HttpOnly)
	}
	assert.True(t, names[accessCookieName])
	assert.True(t, names[refreshCookieName])
}

func TestRefreshRecordsClientBehindProxies(t *testing.T) {
	q := setup(t)
	token, err := generateAndStoreRefreshToken(context.Background(), "user-1", clientInfo{})
	require.NoError(t, err)
	assert.Len(t, token, 64)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2, 10.0.0.3")
	req.Header.Set("User-Agent", "vitalog-ios/1.0")
	rec := httptest.NewRecorder()

	require.NoError(t, RefreshHandler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, q.created, 2)
	rotated := q.created[1]
	assert.Equal(t, pgtype.Text{String: "203.0.113.7", Valid: true}, rotated.IpAddress)
	assert.Equal(t, pgtype.Text{String: "vitalog-ios/1.0", Valid: true}, rotated.UserAgent)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	setup(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer unknown")
	rec := httptest.NewRecorder()

	require.NoError(t, RefreshHandler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshWithoutToken(t *testing.T) {
	setup(t)

	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, RefreshHandler(e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/refresh", nil), rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesAndClearsCookies(t *testing.T) {
	q := setup(t)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/logout", nil), rec)
	c.Set("user_id", "user-1")

	require.NoError(t, LogoutHandler(c))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, []string{"user-1"}, q.revokedAllFor)

	for _, ck := range rec.Result().Cookies() {
		assert.Empty(t, ck.Value)
		assert.Equal(t, -1, ck.MaxAge)
	}
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, hashToken("abc"), hashToken("abc"))
	assert.NotEqual(t, hashToken("abc"), hashToken("abd"))
}
