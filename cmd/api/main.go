package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coverage_backend/internal/coverage"
	"coverage_backend/internal/geocode"
	apphttp "coverage_backend/internal/http"
	"coverage_backend/internal/http/router"
	"coverage_backend/platform/config"
	"coverage_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	cache, closeCache := initCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	upstream := coverage.NewUpstream(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	coverageSvc := coverage.NewService(upstream, cache, cfg.GetCacheTTL(), cfg.GetCoverageTimeout(), log)

	modules := []apphttp.Module{
		coverage.NewModule(coverageSvc, upstream),
		geocode.NewModule(cfg, log),
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	engine := router.New(cfg, log, modules)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCache selects the lookup cache backend: Redis when configured, so the
// cache is shared across replicas, in-memory otherwise.
func initCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (coverage.Cache, func()) {
	if cfg.GetRedisAddr() == "" {
		log.Info("using in-memory lookup cache")
		return coverage.NewMemoryCache(nil), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, falling back to in-memory cache", "addr", cfg.GetRedisAddr(), "error", err.Error())
		_ = client.Close()
		return coverage.NewMemoryCache(nil), nil
	}

	log.Info("using redis lookup cache", "addr", cfg.GetRedisAddr())
	return coverage.NewRedisCache(client, log), func() {
		_ = client.Close()
	}
}
