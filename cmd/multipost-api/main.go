package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/multipost-api/internal/config"
	"github.com/princekumarofficial/multipost-api/internal/http/router"
	"github.com/princekumarofficial/multipost-api/internal/logger"
	"github.com/princekumarofficial/multipost-api/internal/ratelimit"
	"github.com/princekumarofficial/multipost-api/internal/services/diagnostics"
	"github.com/princekumarofficial/multipost-api/internal/services/publish"
	"github.com/princekumarofficial/multipost-api/internal/storage"
	_ "github.com/princekumarofficial/multipost-api/internal/storage/postgres"
	_ "github.com/princekumarofficial/multipost-api/internal/storage/redisstore"
	_ "github.com/princekumarofficial/multipost-api/internal/storage/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// load config
	cfg := config.MustLoad()
	logger.Setup(cfg.Env)

	// optional database, only probed by /test
	handle, openErr := storage.Open(context.Background(), cfg.Database.URL)
	switch {
	case errors.Is(openErr, storage.ErrNotFound):
		slog.Info("No database configured", slog.Any("drivers", storage.Schemes()))
	case openErr != nil:
		slog.Warn("Failed to open database", slog.String("error", openErr.Error()))
	default:
		defer handle.Close()
		slog.Info("Database handle ready")
	}

	var limiter *ratelimit.TokenBucket
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Addr == "" {
			log.Fatal("rate limiting requires redis.addr")
		}
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		limiter = ratelimit.NewTokenBucket(redisClient, cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerMinute)
		slog.Info("Upload rate limiting enabled",
			slog.Int64("capacity", cfg.RateLimit.Capacity),
			slog.Int64("refill_per_minute", cfg.RateLimit.RefillPerMinute))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// setup server
	handler := router.New(router.Deps{
		Prober: diagnostics.NewService(diagnostics.StaticLoader(handle, openErr),
			os.Getenv, cfg.Diagnostics.Timeout),
		Publisher:      publish.NewService(),
		Limiter:        limiter,
		Registry:       registry,
		MaxMemoryBytes: cfg.Upload.MaxMemoryBytes,
		MaxBodyBytes:   cfg.Upload.MaxBodyBytes,
	})

	server := http.Server{
		Addr:              cfg.HTTPServer.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	slog.Info("server started", slog.String("address", cfg.HTTPServer.Address()))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
