package server

import (
	"net/http"

	user "Vitalog/internal/User"
	"Vitalog/internal/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(LoggerMiddleware)
	e.Use(middleware.RequestLoggerWithConfig(requestLoggerConfig()))
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", s.healthHandler)

	// OAuth
	e.GET("/auth/:provider", auth.ProviderHandler)
	e.GET("/auth/:provider/callback", auth.CallbackHandler)

	// Refresh token endpoint (both web and mobile)
	e.POST("/auth/refresh", auth.RefreshHandler)

	// Protected routes
	protected := e.Group("")
	protected.Use(auth.JwtAuthMiddleware)

	protected.GET("/profile", user.GetUserProfileHandler)
	protected.PUT("/profile", user.UpdateUserProfileHandler)
	protected.GET("/logout", auth.LogoutHandler)

	// Blood tests
	protected.POST("/blood-tests", user.CreateBloodTestHandler)
	protected.GET("/blood-tests", user.ListBloodTestsHandler)
	protected.GET("/blood-tests/export", user.ExportBloodTestsHandler)
	protected.DELETE("/blood-tests/:id", user.DeleteBloodTestHandler)

	// Charts and analyses
	protected.GET("/dashboard", user.GetDashboardHandler)
	protected.POST("/analyze", user.AnalyzeHandler)
	protected.GET("/analysis", user.GetAnalysisHandler)
	protected.GET("/analysis/ai", user.GetAIAnalysisHandler)

	// Websocket for live dashboard refresh
	protected.GET("/ws", user.WebSocketHandler)

	return e
}

// LoggerMiddleware tags the request with an ID and stores a child logger on
// both the echo context and the request context.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		c.Set("logger", &logger)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

		return next(c)
	}
}

// requestLoggerConfig sends the access log through zerolog.
func requestLoggerConfig() middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	}
}
