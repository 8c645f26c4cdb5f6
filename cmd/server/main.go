// Package main is the entry point for the ledger server.
// It loads configuration, wires the stores, gateway and services,
// and serves the HTTP API until interrupted.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ledger/internal/config"
	"ledger/internal/logging"
	"ledger/internal/repositories"
	"ledger/internal/repositories/cache"
	"ledger/internal/routes"
	"ledger/internal/services/auth"
	"ledger/internal/services/gateway"
	"ledger/internal/services/transaction"
	"ledger/internal/services/wallet"
	"ledger/internal/telemetry"
	"ledger/internal/utils/response"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(cfg.Logging)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Otel)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()
	metrics, err := telemetry.NewOtelMetrics()
	if err != nil {
		return err
	}

	db, err := repositories.InitDB(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn("failed to close database connection", "error", err)
			}
		}
	}()
	if sqlDB, err := db.DB(); err == nil {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					stats := sqlDB.Stats()
					log.Debug("db pool stats", "open", stats.OpenConnections, "idle", stats.Idle,
						"in_use", stats.InUse, "wait_count", stats.WaitCount, "wait_duration", stats.WaitDuration)
				}
			}
		}()
	}
	ledgerRepo := repositories.NewLedgerRepository(db)

	store, closeCache := newCache(ctx, cfg.Redis, log)
	defer closeCache()

	gw, err := gateway.New(cfg.Gateway, cfg.Ledger.DefaultCurrency, log)
	if err != nil {
		return err
	}

	wallets := wallet.NewService(ledgerRepo, store, wallet.Config{
		DefaultCurrency: cfg.Ledger.DefaultCurrency,
		CacheTTL:        cfg.Redis.TTL,
	}, metrics, log)
	processor := transaction.NewProcessor(transaction.ProcessorConfig{
		Repo:              ledgerRepo,
		Gateway:           gw,
		Balances:          wallets,
		Cache:             store,
		Metrics:           metrics,
		Logger:            log,
		MinDepositAmount:  cfg.Ledger.MinDepositAmount,
		MinTransferAmount: cfg.Ledger.MinTransferAmount,
		GatewayTimeout:    cfg.Gateway.Timeout,
	})

	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return response.Error(c, fe.Code, fe.Message, "HTTP_ERROR")
			}
			return response.FromError(c, err)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods: "GET,POST,HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/wallet/transfer", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.", "RATE_LIMITED")
		},
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Auth:            auth.NewService(repositories.NewAPIKeyRepository(db), cfg.JWTSecret, log),
		Wallets:         wallets,
		Transactions:    processor,
		SignatureHeader: gw.SignatureHeader(),
		DB:              ledgerRepo,
		Logger:          log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("ledger listening", "port", cfg.Port, "gateway", gw.Name())
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

// newCache prefers redis and falls back to an in-process cache when redis is
// disabled or unreachable at startup.
func newCache(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (cache.Cache, func()) {
	if !cfg.Enabled {
		log.Info("redis disabled, using in-process cache")
		return cache.NewLocalCache(cfg.TTL), func() {}
	}

	svc := cache.NewCacheService(cache.NewRedisClient(cfg), cfg.TTL)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := svc.HealthCheck(pingCtx); err != nil {
		log.Warn("redis unreachable, using in-process cache", "error", err)
		_ = svc.Close()
		return cache.NewLocalCache(cfg.TTL), func() {}
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := svc.GetStats()
				log.Debug("redis pool stats", "hits", stats.Hits, "misses", stats.Misses,
					"timeouts", stats.Timeouts, "total_conns", stats.TotalConns, "idle_conns", stats.IdleConns)
			}
		}
	}()
	return svc, func() {
		if err := svc.Close(); err != nil {
			log.Warn("failed to close redis connection", "error", err)
		}
	}
}
