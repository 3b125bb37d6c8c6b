package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bookledger/internal/adapter/http"
	"github.com/iho/bookledger/internal/adapter/http/handler"
	"github.com/iho/bookledger/internal/adapter/outbox"
	postgresRepo "github.com/iho/bookledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bookledger/internal/adapter/repository/redis"
	"github.com/iho/bookledger/internal/infrastructure/config"
	"github.com/iho/bookledger/internal/infrastructure/logger"
	"github.com/iho/bookledger/internal/infrastructure/metrics"
	"github.com/iho/bookledger/internal/infrastructure/postgres"
	"github.com/iho/bookledger/internal/infrastructure/redis"
	"github.com/iho/bookledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.SetGlobalLevel(appLogger.GetLevel())

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	catalogRepo := postgresRepo.NewCatalogRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	agreementRepo := postgresRepo.NewAgreementRepository(pool)
	eventRepo := postgresRepo.NewEventRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	catalogUC := usecase.NewCatalogUseCase(catalogRepo)
	accountUC := usecase.NewAccountUseCase(accountRepo, entryRepo, idGen)
	customerUC := usecase.NewCustomerUseCase(customerRepo, accountRepo, idGen)
	agreementUC := usecase.NewAgreementUseCase(agreementRepo, catalogRepo, cache, idGen)
	entryUC := usecase.NewEntryUseCase(entryRepo)
	eventUC := usecase.NewEventUseCase(txManager, eventRepo, entryRepo, customerRepo, agreementRepo, catalogRepo, outboxRepo, idGen, retrier)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC, appMetrics)
	customerHandler := handler.NewCustomerHandler(customerUC)
	agreementHandler := handler.NewAgreementHandler(agreementUC, appMetrics)
	eventHandler := handler.NewEventHandler(eventUC, appMetrics)
	entryHandler := handler.NewEntryHandler(entryUC)
	catalogHandler := handler.NewCatalogHandler(catalogUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		CustomerHandler:  customerHandler,
		AgreementHandler: agreementHandler,
		EventHandler:     eventHandler,
		EntryHandler:     entryHandler,
		CatalogHandler:   catalogHandler,
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		Logger:           appLogger,
	})

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	publisher := outbox.NewPublisher(outboxRepo, appLogger, appMetrics)
	go publisher.Run(workerCtx)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				appMetrics.DBConnections.Set(float64(pool.Stat().TotalConns()))
			}
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
