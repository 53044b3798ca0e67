package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"Vitalog/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection pool.
	Close()

	Queries() *Queries
	Pool() *pgxpool.Pool
}

type service struct {
	pool     *pgxpool.Pool
	q        *Queries
	database string
}

func (s *service) Queries() *Queries {
	return s.q
}

func (s *service) Pool() *pgxpool.Pool {
	return s.pool
}

// NewService opens the pool and verifies the server is reachable.
func NewService(ctx context.Context, cfg config.DBConfig) (Service, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s: %w", cfg.Database, err)
	}

	log.Info().Str("database", cfg.Database).Str("host", cfg.Host).Msg("Connected to database")

	return &service{
		pool:     pool,
		q:        New(pool),
		database: cfg.Database,
	}, nil
}

// Health checks the health of the database connection.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("db down")
		return stats
	}

	return poolHealth(s.pool.Stat())
}

// poolStat is the subset of *pgxpool.Stat that Health reports.
type poolStat interface {
	TotalConns() int32
	IdleConns() int32
	AcquiredConns() int32
	MaxConns() int32
	AcquireCount() int64
	AcquireDuration() time.Duration
	EmptyAcquireCount() int64
	CanceledAcquireCount() int64
}

func poolHealth(ps poolStat) map[string]string {
	stats := map[string]string{
		"status":                 "up",
		"total_conns":            strconv.Itoa(int(ps.TotalConns())),
		"idle_conns":             strconv.Itoa(int(ps.IdleConns())),
		"acquired_conns":         strconv.Itoa(int(ps.AcquiredConns())),
		"max_conns":              strconv.Itoa(int(ps.MaxConns())),
		"acquire_count":          strconv.FormatInt(ps.AcquireCount(), 10),
		"acquire_duration_ms":    strconv.FormatInt(ps.AcquireDuration().Milliseconds(), 10),
		"empty_acquire_count":    strconv.FormatInt(ps.EmptyAcquireCount(), 10),
		"canceled_acquire_count": strconv.FormatInt(ps.CanceledAcquireCount(), 10),
	}

	if ps.AcquiredConns() > (ps.MaxConns() * 8 / 10) { // 80% capacity
		stats["message"] = "The database connection pool is experiencing heavy load."
	}
	if ps.EmptyAcquireCount() > 0 {
		stats["message"] = "The application has tried to acquire a connection from an empty pool. Consider increasing max connections."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() {
	log.Info().Str("database", s.database).Msg("Disconnected from database")
	s.pool.Close()
}
