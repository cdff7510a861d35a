package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storelane/inventory/internal/adapter/catalog"
	"github.com/storelane/inventory/internal/adapter/handler"
	"github.com/storelane/inventory/internal/adapter/messaging"
	"github.com/storelane/inventory/internal/adapter/storage"
	"github.com/storelane/inventory/internal/config"
	"github.com/storelane/inventory/internal/core/domain"
	"github.com/storelane/inventory/internal/core/service"
	"github.com/storelane/inventory/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open mysql")
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping mysql")
	}
	log.Info().Msg("connected to mysql")

	ledger := storage.NewMySQLLedger(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure ledger schema")
	}

	// Initialize Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid redis url")
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	log.Info().Msg("connected to redis")

	// Initialize adapters
	statusStore := storage.NewRedisStatusStore(rdb)
	publisher := messaging.NewKafkaAlertPublisher(cfg.KafkaBrokers, cfg.AlertTopic)
	catalogClient := catalog.NewHTTPCatalog(cfg.CatalogURL)

	// Initialize services
	alertSvc := service.NewAlertService(statusStore, log.Logger, cfg.AlertQueueSize)
	adjustSvc := service.NewAdjustmentService(ledger, alertSvc, log.Logger,
		cfg.AdjustMaxRetries, cfg.RetryBudget())
	reserveSvc := service.NewReservationService(adjustSvc, ledger, log.Logger)

	// Start alert publisher workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.AlertWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			publishLoop(id, alertSvc.Events(), publisher)
		}(i)
	}
	log.Info().Int("workers", cfg.AlertWorkers).Msg("started alert publishers")

	// Initialize HTTP server
	h := handler.NewStockHandler(adjustSvc, reserveSvc, ledger, catalogClient, log.Logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler.NewRouter(cfg.Env, h),
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info().Msg("HTTP server stopped")

	// Close alert queue and wait for publishers to drain it
	alertSvc.Close()
	wg.Wait()
	log.Info().Msg("alert publishers stopped")

	publisher.Close()
	rdb.Close()
	db.Close()
	log.Info().Msg("connections closed")
}

// publishLoop drains emitted alert events into Kafka. A failed publish is
// retried once; after that the event is logged and dropped — the stock
// write it derives from is already committed and remains the source of
// truth.
func publishLoop(id int, queue <-chan domain.AlertEvent, publisher port.AlertPublisher) {
	for event := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		err := publisher.Publish(ctx, event)
		if err != nil {
			log.Warn().Err(err).Int("worker", id).
				Str("product_id", event.ProductID).
				Msg("alert publish failed, retrying")
			err = publisher.Publish(ctx, event)
		}
		if err != nil {
			log.Error().Err(err).Int("worker", id).
				Str("product_id", event.ProductID).
				Str("status", string(event.NewStatus)).
				Msg("alert publish failed, event dropped")
		}

		cancel()
	}
}
