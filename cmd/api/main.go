package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	user "Vitalog/internal/User"
	"Vitalog/internal/analysis"
	"Vitalog/internal/auth"
	"Vitalog/internal/config"
	"Vitalog/internal/database"
	"Vitalog/internal/geminiservice"
	"Vitalog/internal/logger"
	"Vitalog/internal/server"
	"Vitalog/internal/utility"

	"github.com/rs/zerolog/log"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is handling.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
	done <- true
}

// buildNarrator puts the Gemini client behind Redis when REDIS_ADDR is set,
// otherwise behind an in-process LRU. The returned func releases both.
func buildNarrator(ctx context.Context, cfg *config.Config) (geminiservice.Narrator, func(), error) {
	gemini, err := geminiservice.NewGeminiNarrator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { gemini.Close() }

	if cfg.Cache.RedisAddr != "" {
		ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
		cache, client, err := geminiservice.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, ttl)
		if err != nil {
			gemini.Close()
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Cache.RedisAddr).Dur("ttl", ttl).Msg("Narrative cache: redis")
		return geminiservice.NewCachedNarrator(gemini, cache), func() {
			client.Close()
			gemini.Close()
		}, nil
	}

	cache, err := geminiservice.NewLRUCache(cfg.Cache.Size)
	if err != nil {
		gemini.Close()
		return nil, nil, err
	}
	log.Info().Int("size", cfg.Cache.Size).Msg("Narrative cache: in-process LRU")
	return geminiservice.NewCachedNarrator(gemini, cache), cleanup, nil
}

func main() {
	cfg, err := config.Load()
	logger.Init(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	dbService, err := database.NewService(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	defer dbService.Close()

	if err := database.Migrate(ctx, dbService.Pool()); err != nil {
		log.Fatal().Err(err).Msg("could not apply schema")
	}

	queries := dbService.Queries()
	if err := auth.InitAuth(cfg, queries); err != nil {
		log.Fatal().Err(err).Msg("could not initialize authentication providers")
	}

	narrator, closeNarrator, err := buildNarrator(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize narrative generator")
	}
	defer closeNarrator()

	strategy, err := analysis.StrategyByName(cfg.TrendStrategy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid TREND_STRATEGY")
	}

	user.InitUserPackage(queries, narrator, analysis.NewEngine(strategy), utility.NewHub())

	apiServer := server.NewServer(cfg, dbService)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, done)

	log.Info().Str("addr", apiServer.Addr).Msg("HTTP server listening")
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
