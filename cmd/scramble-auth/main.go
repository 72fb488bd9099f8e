// Command scramble-auth serves the account API over HTTP.
//
// Configuration is read from the environment; ACCESS_SECRET,
// REFRESH_SECRET, ACCESS_TTL and REFRESH_TTL are required. Redis is
// optional at runtime: when it is unreachable the session cache falls back
// to process memory.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"github.com/MrEthical07/scrambleAuth/httpapi"
	promexport "github.com/MrEthical07/scrambleAuth/metrics/export/prometheus"
	"github.com/MrEthical07/scrambleAuth/userstore/mongostore"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("scramble-auth stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	env, err := scrambleAuth.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------- mongo ----------
	client, err := mongo.Connect(options.Client().ApplyURI(env.MongoURI))
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	store := mongostore.New(client, env.MongoDatabase, "")
	sctx, cancel := context.WithTimeout(ctx, startupTimeout)
	err = store.EnsureIndexes(sctx)
	cancel()
	if err != nil {
		return err
	}
	logger.Info("user store ready", "database", env.MongoDatabase)

	// ---------- redis ----------
	rdb := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})
	defer rdb.Close()

	// ---------- engine ----------
	engine, err := scrambleAuth.New().
		WithConfig(env.EngineConfig()).
		WithCredentialStore(store).
		WithRedis(rdb).
		WithLogger(logger).
		WithNotificationSink(scrambleAuth.NewRedisQueueSink(rdb, env.NotifyQueue)).
		Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	report := engine.SecurityReport()
	logger.Info("engine ready",
		"production", report.ProductionMode,
		"password_algorithm", string(report.PasswordAlgorithm),
		"refresh_rotation", report.RefreshRotationEnabled,
		"login_throttle", report.RateLimitingActive,
		"cache_available", report.CacheAvailable,
	)

	// ---------- http ----------
	api := httpapi.New(engine, logger)
	api.Mount("GET /metrics", promexport.NewPrometheusExporter(engine).Handler())

	srv := &http.Server{
		Addr:              env.HTTPAddr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
