// Package main is the entry point for the collaboration limits API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/irieemon/design-matrix-app-sub016/internal/cache"
	"github.com/irieemon/design-matrix-app-sub016/internal/config"
	"github.com/irieemon/design-matrix-app-sub016/internal/database"
	"github.com/irieemon/design-matrix-app-sub016/internal/limits"
	"github.com/irieemon/design-matrix-app-sub016/internal/repository"
	"github.com/irieemon/design-matrix-app-sub016/internal/server"
	"github.com/irieemon/design-matrix-app-sub016/internal/services"
	"github.com/irieemon/design-matrix-app-sub016/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel)
	log.Info("starting api server", "env", cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := limits.NewEngine(log)
	defer engine.Destroy()

	srv := server.New(cfg, log, engine)

	// Idea persistence is optional. Without a database the abuse engine
	// still runs; the idea endpoints answer 503.
	if cfg.DatabaseEnabled() {
		pool, err := database.NewPool(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		var repo repository.IdeaRepository = repository.NewPostgresIdeaRepository(pool)

		if cfg.RedisEnabled() {
			redisCache, err := cache.NewRedisCache(ctx, &cfg.Redis)
			if err != nil {
				log.Warn("redis unavailable, serving uncached", "error", err.Error())
			} else {
				defer redisCache.Close()
				repo = repository.NewCachedIdeaRepository(repo, cache.NewIdeaCache(redisCache, 0))
			}
		}

		srv.SetIdeaService(services.NewIdeaService(repo))
		srv.HealthHandler().AddCheck("database", func() bool {
			return repo.HealthCheck(context.Background()) == nil
		})

		log.Info("idea storage enabled", "cached", cfg.RedisEnabled())
	} else {
		log.Info("running without idea storage")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return <-errCh
}
