/*
Package server implements the application's network transport layer.
It configures the HTTP server timeouts and wires the router to the
database service.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"Vitalog/internal/config"
	"Vitalog/internal/database"
)

// Server holds the dependencies shared by the route handlers.
type Server struct {
	port int

	// db provides the pool health statistics for /health.
	db database.Service

	// allowedOrigins feeds the CORS middleware.
	allowedOrigins []string

	startTime time.Time
}

// NewServer returns an *http.Server serving the application routes.
func NewServer(cfg *config.Config, db database.Service) *http.Server {
	s := &Server{
		port:           cfg.Port,
		db:             db,
		allowedOrigins: corsOrigins(cfg.AppURL),
		startTime:      time.Now(),
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second, // covers the 30s narrator timeout
	}
}

func corsOrigins(appURL string) []string {
	if appURL == "" {
		return []string{"https://*", "http://*"}
	}
	return []string{appURL}
}
