package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elearning-payments/config"
	httpHandler "elearning-payments/internal/adapter/http/handler"
	pgStorage "elearning-payments/internal/adapter/storage/postgres"
	redisStorage "elearning-payments/internal/adapter/storage/redis"
	"elearning-payments/internal/core/ports"
	"elearning-payments/internal/service"
	"elearning-payments/pkg/logger"

	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting E-Learning Payments")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	courseRepo := pgStorage.NewCourseRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	enrollRepo := pgStorage.NewEnrollmentRepo(pool)
	payoutRepo := pgStorage.NewPayoutRepo(pool)
	cartRepo := pgStorage.NewCartRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	ackCache := redisStorage.NewAckCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	codec := service.NewVNPayCodec(cfg.VNPay, log)

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc)
	paymentSvc := service.NewPaymentService(
		txRepo,
		courseRepo,
		enrollRepo,
		payoutRepo,
		cartRepo,
		codec,
		ackCache,
		transactor,
		log,
	)
	payoutSvc := service.NewPayoutService(payoutRepo, transactor, log)
	cartSvc := service.NewCartService(cartRepo, courseRepo, enrollRepo, log)
	enrollSvc := service.NewEnrollmentService(enrollRepo, courseRepo, transactor, log)
	reportingSvc := service.NewReportingService(txRepo)
	reconcileSvc := service.NewReconcileService(txRepo, cfg.Reconcile.PendingTTL, log)

	// Background job: fail PENDING transactions the gateway never confirmed
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Reconcile.Schedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if _, err := reconcileSvc.ExpireStalePending(jobCtx); err != nil {
			log.Error().Err(err).Msg("Pending reconcile job failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Reconcile.Schedule).Msg("Invalid reconcile schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		PaymentSvc:     paymentSvc,
		PayoutSvc:      payoutSvc,
		CartSvc:        cartSvc,
		EnrollSvc:      enrollSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
