package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fonoflow/clinic-api/internal/config"
	"github.com/fonoflow/clinic-api/internal/repository"
	"github.com/fonoflow/clinic-api/internal/repository/postgres"
	"github.com/fonoflow/clinic-api/pkg/logger"
	"github.com/fonoflow/clinic-api/pkg/messaging/redis"
	"github.com/fonoflow/clinic-api/pkg/metrics"
	"github.com/fonoflow/clinic-api/pkg/worker"
)

// Retention for processed outbox rows.
const processedRetention = 7 * 24 * time.Hour

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

	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     orDefault(cfg.Outbox.BatchSize, 100),
			PollInterval:  time.Duration(orDefault(cfg.Outbox.PollIntervalSeconds, 5)) * time.Second,
			RetryAttempts: orDefault(cfg.Outbox.RetryAttempts, 3),
			RetryDelay:    time.Duration(orDefault(cfg.Outbox.RetryDelaySeconds, 5)) * time.Second,
		},
		appLogger,
		metrics.NewMetrics("clinic", "outbox_worker"),
	)

	setupHealthCheck(appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Shutting down worker")
		cancel()
	}()

	go cleanupLoop(ctx, outboxRepo, appLogger)

	processor.Start(ctx)
}

// cleanupLoop prunes processed outbox rows past retention once an hour.
func cleanupLoop(ctx context.Context, repo repository.OutboxRepository, appLogger *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteProcessedBefore(ctx, time.Now().Add(-processedRetention))
			if err != nil {
				appLogger.Error(err, "Failed to prune processed events")
				continue
			}
			if deleted > 0 {
				appLogger.Info("Pruned processed events", map[string]interface{}{"deleted": deleted})
			}
		}
	}
}

func setupHealthCheck(appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			appLogger.Fatal(err, "Health check server failed")
		}
	}()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
