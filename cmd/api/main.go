package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"metarelay/api/internal/cache"
	"metarelay/api/internal/config"
	"metarelay/api/internal/database"
	"metarelay/api/internal/graph"
	"metarelay/api/internal/handlers"
	"metarelay/api/internal/jobs"
	"metarelay/api/internal/log"
	"metarelay/api/internal/repository"
	"metarelay/api/internal/server"
	"metarelay/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.EnsureSchema(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	var archive *storage.PayloadArchive
	if cfg.Archive.Enabled {
		archive, err = storage.NewPayloadArchive(cfg.Archive)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init payload archive")
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure archive bucket failed")
		}
	}

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, archive, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(repository.NewSessionRepository(dbPool), logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	if cfg.Graph.PageID != "" && cfg.Graph.PageToken != "" {
		go ensurePageSubscription(ctx, logger, cfg)
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

// ensurePageSubscription enrolls the configured page for webhook fields so
// deliveries start flowing without a manual Graph API call.
func ensurePageSubscription(ctx context.Context, logger zerolog.Logger, cfg *config.AppConfig) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := graph.NewClient(cfg.Graph)
	if err := client.Subscribe(ctx, cfg.Graph.PageID, cfg.Graph.PageToken, cfg.Graph.SubscribedFields); err != nil {
		logger.Error().Err(err).Str("page_id", cfg.Graph.PageID).Msg("page webhook subscription failed")
		return
	}
	logger.Info().
		Str("page_id", cfg.Graph.PageID).
		Strs("fields", cfg.Graph.SubscribedFields).
		Msg("page webhook subscription ensured")
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
