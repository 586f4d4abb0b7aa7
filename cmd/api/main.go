package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/config"
	"github.com/xavierca1/tes-insurance/internal/infra/database"
	"github.com/xavierca1/tes-insurance/internal/infra/http/handlers"
	"github.com/xavierca1/tes-insurance/internal/infra/http/middleware"
	"github.com/xavierca1/tes-insurance/internal/infra/http/router"
	"github.com/xavierca1/tes-insurance/internal/infra/queue"
	"github.com/xavierca1/tes-insurance/internal/infra/worker"
	"github.com/xavierca1/tes-insurance/internal/logger"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code so deferred cleanup, log.Sync included,
// runs before the process exits.
func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store
	db, err := database.NewDBConnection(database.Options{
		Driver:       cfg.DBDriver,
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	hasher := auth.NewHasher(cfg.BcryptRounds)
	tokens := auth.NewTokenProvider(cfg.JWTSecret, cfg.TokenTTL())

	if cfg.SeedDefaultUsers {
		n, err := database.NewSeeder(db, hasher).SeedDefaultUsers(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Warn("default users created; change their passwords", zap.Int("count", n))
		}
	}

	// 2. Domain events, optional
	var (
		publisher usecase.EventPublisher
		broker    handlers.Broker
	)
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		publisher = queue.NewProducer(rabbitMQ.Ch)
		broker = rabbitMQ.Conn
		log.Info("publishing domain events", zap.String("exchange", queue.ExchangeName))
	}

	// 3. Rate limiting: Redis when configured so replicas share a budget
	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		limiter = middleware.NewRedisLimiter(client, cfg.RateLimitMaxRequests, cfg.RateWindow())
	} else {
		mem := middleware.NewMemoryLimiter(cfg.RateLimitMaxRequests, cfg.RateWindow())
		defer mem.Stop()
		limiter = mem
	}

	// 4. Background expiry of stale quotes and policies. The deferred stop
	// waits for the sweeper, so it runs before db.Close.
	if every := cfg.ExpirySweep(); every > 0 {
		expirer := worker.NewExpirationWorker(
			database.NewQuoteRepository(db),
			database.NewPolicyRepository(db),
			every,
			log,
		)
		stopSweeper := expirer.Run(ctx)
		defer stopSweeper()
	}

	// 5. HTTP
	handler := router.New(router.Deps{
		Log:          log,
		Env:          cfg.Env,
		Production:   cfg.IsProduction(),
		CORSOrigins:  cfg.CORSOrigins(),
		MaxBodyBytes: cfg.MaxBodyBytes,
		TrustProxy:   cfg.TrustProxy,
		DB:           db,
		Broker:       broker,
		Limiter:      limiter,
		Tokens:       tokens,
		Services:     router.NewServices(db, publisher, hasher, tokens, log),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("db_driver", cfg.DBDriver),
		)
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
