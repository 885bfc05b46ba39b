package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"customer_backend/internal/app/di"
	"customer_backend/internal/app/router"
	"customer_backend/internal/config"
	authusecase "customer_backend/internal/feature/auth/usecase"
	infradb "customer_backend/internal/platform/db"
	platformhandler "customer_backend/internal/platform/http/handler"
	"customer_backend/internal/platform/logging"
	infraredis "customer_backend/internal/platform/redis"
	"customer_backend/internal/shared/ratelimiter"
)

const (
	limiterSweepInterval = time.Minute
	sessionSweepInterval = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New("customer_backend", cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.Open(ctx, cfg.DB, logger, di.Models()...)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		if err := infradb.Close(db); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	// Redis
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close redis client", zap.Error(err))
			}
		}()
	}

	features := di.NewFeatures(cfg, db, rdb, logger)

	limiter := ratelimiter.NewKeyedLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limiter.StartJanitor(ctx, limiterSweepInterval)
	go sweepSessions(ctx, features.Sessions, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewRouter(features, router.Options{
		JWTSecret:      cfg.JWT.Secret,
		Limiter:        limiter,
		Checks:         readinessChecks(db, rdb),
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Log:            logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           engine,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func readinessChecks(db *gorm.DB, rdb *redisv9.Client) map[string]platformhandler.Check {
	checks := map[string]platformhandler.Check{
		"database": func(ctx context.Context) error { return infradb.Ping(ctx, db) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// sweepSessions deletes expired refresh sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions authusecase.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := sessions.DeleteExpired(ctx, now)
			if err != nil {
				logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("expired sessions deleted", zap.Int64("count", n))
			}
		}
	}
}
