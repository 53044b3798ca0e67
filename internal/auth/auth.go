/*
Package auth signs users in with Google through goth, issues short-lived
HS256 access tokens and rotating refresh tokens, and guards the protected
routes. Web clients carry both tokens in HttpOnly cookies; mobile clients
send them as bearer tokens.
*/
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Vitalog/internal/config"
	"Vitalog/internal/database"
	"Vitalog/internal/utility"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 30 * 24 * time.Hour

	accessCookieName  = "access-token"
	refreshCookieName = "refresh-token"
	tokenIssuer       = "vitalog"
)

var (
	queries       database.Querier
	sessionSecret []byte
	appURL        string
	isProd        bool
)

type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	User         database.User `json:"user"`
}

// InitAuth configures the session store and the Google provider.
func InitAuth(cfg *config.Config, q database.Querier) error {
	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET must be set")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.AppURL == "" {
		return errors.New("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, and APP_URL must be set")
	}

	configure(q, cfg.SessionSecret, cfg.AppURL, cfg.IsProduction())

	store := sessions.NewCookieStore(sessionSecret)
	store.MaxAge(600)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = isProd
	store.Options.SameSite = http.SameSiteLaxMode
	gothic.Store = store

	callbackURL := fmt.Sprintf("%s/auth/google/callback", appURL)
	goth.UseProviders(
		google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, callbackURL, "email", "profile"),
	)

	log.Info().
		Str("app_env", cfg.AppEnv).
		Bool("secure_cookies", isProd).
		Str("callback_url", callbackURL).
		Msg("Auth initialized")
	return nil
}

func configure(q database.Querier, secret, url string, production bool) {
	queries = q
	sessionSecret = []byte(secret)
	appURL = strings.TrimSuffix(url, "/")
	isProd = production
}

// ProviderHandler starts the OAuth flow.
func ProviderHandler(c echo.Context) error {
	provider := c.Param("provider")
	utility.GetLogger(c).Info().Str("provider", provider).Msg("Starting OAuth flow")

	req := c.Request()
	req = req.WithContext(context.WithValue(req.Context(), gothic.ProviderParamKey, provider))
	gothic.BeginAuthHandler(c.Response().Writer, req)
	return nil
}

// CallbackHandler completes the OAuth flow, upserts the user and sets the
// auth cookies before sending the browser to the dashboard.
func CallbackHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.GetLogger(c)

	provider := c.Param("provider")
	if provider == "" {
		provider = "google"
	}
	req := c.Request()
	req = req.WithContext(context.WithValue(req.Context(), gothic.ProviderParamKey, provider))

	gothUser, err := gothic.CompleteUserAuth(c.Response().Writer, req)
	if err != nil {
		logger.Warn().Err(err).Str("provider", provider).Msg("OAuth code exchange failed")
		return c.Redirect(http.StatusTemporaryRedirect, appURL+"/auth-exchange-error")
	}

	user, err := queries.UpsertOAuthUser(ctx, database.UpsertOAuthUserParams{
		UserID:         uuid.New().String(),
		Provider:       gothUser.Provider,
		ProviderUserID: gothUser.UserID,
		Email:          pgtype.Text{String: gothUser.Email, Valid: gothUser.Email != ""},
		Name:           pgtype.Text{String: gothUser.Name, Valid: gothUser.Name != ""},
		AvatarUrl:      pgtype.Text{String: gothUser.AvatarURL, Valid: gothUser.AvatarURL != ""},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error upserting OAuth user")
		return c.Redirect(http.StatusTemporaryRedirect, appURL+"/auth-exchange-error")
	}

	if err := issueTokens(c, &user); err != nil {
		logger.Error().Err(err).Str("user_id", user.UserID).Msg("Error issuing tokens")
		return c.Redirect(http.StatusTemporaryRedirect, appURL+"/auth-exchange-error")
	}

	logger.Info().Str("user_id", user.UserID).Msg("OAuth user authenticated")
	return c.Redirect(http.StatusTemporaryRedirect, appURL+"/dashboard")
}

func issueTokens(c echo.Context, user *database.User) error {
	accessToken, err := generateAccessToken(user)
	if err != nil {
		return fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := generateAndStoreRefreshToken(c.Request().Context(), user.UserID, clientFromContext(c))
	if err != nil {
		return fmt.Errorf("generate refresh token: %w", err)
	}
	setAuthCookies(c, accessToken, refreshToken)
	return nil
}

func RefreshHandler(c echo.Context) error {
	ctx := c.Request().Context()
	var refreshToken string

	// Try to get from Authorization header first (mobile)
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		refreshToken = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	if refreshToken == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No refresh token provided"})
	}

	user, newRefreshToken, err := useRefreshToken(ctx, refreshToken, clientFromContext(c))
	if err != nil {
		utility.GetLogger(c).Warn().Err(err).Msg("Refresh token rejected")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired refresh token"})
	}

	accessToken, err := generateAccessToken(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error generating access token"})
	}

	if isMobileRequest(c) {
		return c.JSON(http.StatusOK, AuthResponse{
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int64(AccessTokenDuration.Seconds()),
			User:         *user,
		})
	}

	setAuthCookies(c, accessToken, newRefreshToken)
	return c.JSON(http.StatusOK, map[string]string{"message": "Token refreshed"})
}

// JwtAuthMiddleware admits requests with a valid access token and stores the
// user on the context. Bearer clients get a 401; browsers are sent home.
func JwtAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		logger := utility.GetLogger(c)

		var tokenString string
		bearer := false
		if authHeader := c.Request().Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			bearer = true
		} else if cookie, err := c.Cookie(accessCookieName); err == nil {
			tokenString = cookie.Value
		}

		reject := func(msg string) error {
			if bearer {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
			}
			return c.Redirect(http.StatusTemporaryRedirect, "/")
		}

		if tokenString == "" {
			return reject("Missing access token")
		}

		claims, err := parseAccessToken(tokenString)
		if err != nil {
			logger.Debug().Err(err).Msg("Token validation failed")
			return reject("Invalid or expired token")
		}

		user, err := queries.GetUserByID(ctx, claims.UserID)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("Token user not found")
			return reject("User not found")
		}

		c.Set("user", &user)
		c.Set("user_id", user.UserID)
		return next(c)
	}
}

func LogoutHandler(c echo.Context) error {
	ctx := c.Request().Context()

	if userID, err := utility.GetUserIDFromContext(c); err == nil {
		if err := queries.RevokeAllUserRefreshTokens(ctx, userID); err != nil {
			utility.GetLogger(c).Error().Err(err).Msg("Error revoking tokens")
		}
	}

	clearAuthCookies(c)

	if isMobileRequest(c) {
		return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
	return c.Redirect(http.StatusTemporaryRedirect, "/")
}

// Helper functions

func isMobileRequest(c echo.Context) bool {
	return c.Request().Header.Get("X-Platform") == "mobile" ||
		strings.HasPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
}

func generateAccessToken(user *database.User) (string, error) {
	now := time.Now()
	claims := &JwtCustomClaims{
		UserID: user.UserID,
		Email:  user.Email.String,
		Name:   user.Name.String,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

func parseAccessToken(tokenString string) (*JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sessionSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	return claims, nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.URLEncoding.EncodeToString(hash[:])
}

// clientInfo is the device a refresh token is issued to.
type clientInfo struct {
	UserAgent string
	IP        string
}

func clientFromContext(c echo.Context) clientInfo {
	return clientInfo{
		UserAgent: c.Request().UserAgent(),
		IP:        utility.GetRealIP(c),
	}
}

func generateAndStoreRefreshToken(ctx context.Context, userID string, client clientInfo) (string, error) {
	token, err := utility.GenerateSecureToken(32)
	if err != nil {
		return "", err
	}

	_, err = queries.CreateRefreshToken(ctx, database.CreateRefreshTokenParams{
		UserID:    userID,
		TokenHash: hashToken(token),
		UserAgent: pgtype.Text{String: client.UserAgent, Valid: client.UserAgent != ""},
		IpAddress: pgtype.Text{String: client.IP, Valid: client.IP != ""},
		ExpiresAt: pgtype.Timestamptz{Time: time.Now().Add(RefreshTokenDuration), Valid: true},
	})
	if err != nil {
		return "", fmt.Errorf("store refresh token for user %s: %w", userID, err)
	}

	return token, nil
}

// useRefreshToken exchanges a refresh token for a new one. The old token is
// revoked so each refresh token works once.
func useRefreshToken(ctx context.Context, token string, client clientInfo) (*database.User, string, error) {
	rt, err := queries.GetRefreshTokenByHash(ctx, hashToken(token))
	if err != nil {
		return nil, "", fmt.Errorf("invalid refresh token: %w", err)
	}

	// The query filters these already; checked again so a stale row never passes.
	if rt.RevokedAt.Valid {
		return nil, "", errors.New("token has been revoked")
	}
	if rt.ExpiresAt.Valid && time.Now().After(rt.ExpiresAt.Time) {
		return nil, "", errors.New("token has expired")
	}

	user, err := queries.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("user not found: %w", err)
	}

	newToken, err := generateAndStoreRefreshToken(ctx, rt.UserID, client)
	if err != nil {
		return nil, "", err
	}

	if err := queries.RevokeRefreshToken(ctx, rt.ID); err != nil {
		log.Warn().Err(err).Msg("failed to revoke old refresh token")
	}

	return &user, newToken, nil
}

func setAuthCookies(c echo.Context, accessToken, refreshToken string) {
	c.SetCookie(authCookie(accessCookieName, accessToken, time.Now().Add(AccessTokenDuration)))
	c.SetCookie(authCookie(refreshCookieName, refreshToken, time.Now().Add(RefreshTokenDuration)))
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		cookie := authCookie(name, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		c.SetCookie(cookie)
	}
}

func authCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
	}
}
