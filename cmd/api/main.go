package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/fonoflow/clinic-api/internal/config"
	"github.com/fonoflow/clinic-api/internal/email"
	appointmentHandler "github.com/fonoflow/clinic-api/internal/handler/appointment"
	authHandler "github.com/fonoflow/clinic-api/internal/handler/auth"
	availabilityHandler "github.com/fonoflow/clinic-api/internal/handler/availability"
	dashboardHandler "github.com/fonoflow/clinic-api/internal/handler/dashboard"
	healthHandler "github.com/fonoflow/clinic-api/internal/handler/health"
	patientHandler "github.com/fonoflow/clinic-api/internal/handler/patient"
	transactionHandler "github.com/fonoflow/clinic-api/internal/handler/transaction"
	webhookHandler "github.com/fonoflow/clinic-api/internal/handler/webhook"
	"github.com/fonoflow/clinic-api/internal/middleware"
	"github.com/fonoflow/clinic-api/internal/repository/postgres"
	"github.com/fonoflow/clinic-api/internal/router"
	appointmentService "github.com/fonoflow/clinic-api/internal/service/appointment"
	authService "github.com/fonoflow/clinic-api/internal/service/auth"
	availabilityService "github.com/fonoflow/clinic-api/internal/service/availability"
	dashboardService "github.com/fonoflow/clinic-api/internal/service/dashboard"
	patientService "github.com/fonoflow/clinic-api/internal/service/patient"
	transactionService "github.com/fonoflow/clinic-api/internal/service/transaction"
	"github.com/fonoflow/clinic-api/pkg/auth"
	"github.com/fonoflow/clinic-api/pkg/logger"
	"github.com/fonoflow/clinic-api/pkg/messaging/redis"
	"github.com/fonoflow/clinic-api/pkg/metrics"
	"github.com/fonoflow/clinic-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	transactionRepo := postgres.NewTransactionRepository(base)
	userRepo := postgres.NewUserRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	emailSvc := email.NewSMTPService(cfg.Email)

	availabilitySvc := availabilityService.NewService(availabilityRepo, appointmentRepo, cfg.Availability.CacheTTL())
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, outboxRepo, availabilitySvc, emailSvc, appLogger)
	patientSvc := patientService.NewService(patientRepo)
	transactionSvc := transactionService.NewService(transactionRepo)
	dashboardSvc := dashboardService.NewService(patientRepo, appointmentRepo, transactionRepo)
	authSvc := authService.NewService(userRepo, jwtSvc, time.Duration(cfg.JWT.ExpiryHours)*time.Hour, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc),
		availabilityHandler.NewHandler(availabilitySvc),
		appointmentHandler.NewHandler(appointmentSvc),
		patientHandler.NewHandler(patientSvc),
		transactionHandler.NewHandler(transactionSvc),
		dashboardHandler.NewHandler(dashboardSvc),
		webhookHandler.NewHandler(availabilitySvc, appointmentSvc, patientSvc),
		router.Config{
			RateLimit:     rate.Limit(50),
			RateBurst:     100,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "clinic_api",
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			WebhookToken:  cfg.Webhook.Token,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The outbox processor runs in-process; a publish failure never blocks
	// the request path.
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, outboxConfig(cfg.Outbox), appLogger, metrics.NewMetrics("clinic", "outbox"))
	go outboxProcessor.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func outboxConfig(cfg config.OutboxConfig) worker.OutboxProcessorConfig {
	out := worker.OutboxProcessorConfig{
		BatchSize:     cfg.BatchSize,
		PollInterval:  time.Duration(cfg.PollIntervalSeconds) * time.Second,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}
	if out.BatchSize <= 0 {
		out.BatchSize = 50
	}
	if out.PollInterval <= 0 {
		out.PollInterval = 5 * time.Second
	}
	if out.RetryAttempts <= 0 {
		out.RetryAttempts = 3
	}
	if out.RetryDelay <= 0 {
		out.RetryDelay = time.Second
	}
	return out
}
