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

	httpAdapter "github.com/iho/parklot/internal/adapter/http"
	"github.com/iho/parklot/internal/adapter/http/handler"
	"github.com/iho/parklot/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/parklot/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/parklot/internal/adapter/repository/redis"
	"github.com/iho/parklot/internal/chart"
	"github.com/iho/parklot/internal/infrastructure/auth"
	"github.com/iho/parklot/internal/infrastructure/config"
	"github.com/iho/parklot/internal/infrastructure/logger"
	"github.com/iho/parklot/internal/infrastructure/metrics"
	"github.com/iho/parklot/internal/infrastructure/postgres"
	"github.com/iho/parklot/internal/infrastructure/redis"
	"github.com/iho/parklot/internal/usecase"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	rates, err := cfg.Rates()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid parking rates")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	connectCancel()
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

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	tokenGen := usecase.NewRandomTokenGenerator()
	retrier := postgresRepo.NewRetrier(log.Logger)

	// Initialize use cases
	appMetrics := metrics.New()
	parkingUC := usecase.NewParkingUseCase(txManager, entryRepo, auditRepo, tokenGen, idGen, rates, retrier, appMetrics)
	reportUC := usecase.NewReportUseCase(entryRepo, cache)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	// Initialize handlers
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	entryHandler := handler.NewEntryHandler(parkingUC)
	reportHandler := handler.NewReportHandler(reportUC, chart.NewRenderer(), appMetrics)
	exportHandler := handler.NewExportHandler(reportUC, appMetrics)
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	auditHandler := handler.NewAuditHandler(parkingUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)
	go func() {
		for range time.Tick(1 * time.Hour) {
			loginLimiter.CleanupLimiters()
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntryHandler:     entryHandler,
		ReportHandler:    reportHandler,
		ExportHandler:    exportHandler,
		AuthHandler:      authHandler,
		AuditHandler:     auditHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		LoginRateLimiter: loginLimiter,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
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

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
