// Command api runs the judicial credit marketplace HTTP API.
//
// @title                       Credit Marketplace API
// @version                     1.0
// @description                 Judicial credit listings and quota reservations.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/credjud/marketplace/internal/api"
	"github.com/credjud/marketplace/internal/core/service"
	mongostore "github.com/credjud/marketplace/internal/infrastructure/db/mongo"
	redisstore "github.com/credjud/marketplace/internal/infrastructure/db/redis"
	httpserver "github.com/credjud/marketplace/internal/infrastructure/http"
	"github.com/credjud/marketplace/internal/infrastructure/http/handlers"
	"github.com/credjud/marketplace/internal/infrastructure/queue"
	"github.com/credjud/marketplace/internal/pkg/config"
	"github.com/credjud/marketplace/pkg/logger"
)

const serviceName = "credit-marketplace"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; fall back to a bare one.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	// --- Storage ---
	store, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		ClientName: serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	users := mongostore.NewUserRepository(store.DB)
	listings := mongostore.NewListingRepository(store.DB)
	reservationLog := mongostore.NewReservationLogRepository(store.DB)

	// --- Audit workers ---
	// Workers get their own context so Stop can drain them after the HTTP
	// server is gone.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	dispatcher := queue.NewDispatcher(cfg.Ledger.AuditWorkers, reservationLog, logger.Component("audit"))
	dispatcher.Start(workerCtx)
	defer dispatcher.Stop()

	// --- Services ---
	idempotency := redisstore.NewIdempotencyStore(rdb, cfg.Ledger.IdempotencyTTL, cfg.Ledger.IdempotencyPendingTTL)
	ledger := service.NewQuotaLedger(listings, idempotency, dispatcher, cfg.Ledger.MaxAttempts, logger.Component("ledger"))
	listingService := service.NewListingService(listings, cfg.Ledger.MaxAttempts, logger.Component("listings"))
	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(users, listings, logger.Component("users"))

	e := api.NewRouter(api.Dependencies{
		Auth:      authService,
		Users:     userService,
		Listings:  listingService,
		Ledger:    ledger,
		JWTSecret: cfg.JWTSecret,
		ReadinessChecks: map[string]handlers.Check{
			"mongo": handlers.MongoCheck(store.DB),
			"redis": handlers.RedisCheck(rdb),
		},
		Logger: logger.Component("http"),
	})

	start := time.Now()
	err = httpserver.Serve(ctx, e, ":"+cfg.Port, log)
	log.Info().Dur("uptime", time.Since(start)).Msg("http server stopped, draining audit workers")
	return err
}
