package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Domenick1991/flightledger/config"
	"github.com/Domenick1991/flightledger/internal/email"
	"github.com/Domenick1991/flightledger/internal/inventory"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/Domenick1991/flightledger/internal/repository"
	"github.com/Domenick1991/flightledger/internal/service/booking"
	"github.com/Domenick1991/flightledger/internal/service/projection"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log, "flightledger-worker")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if !cfg.Database.Enabled() {
		zlog.Fatal("worker needs database settings for the booking projection")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	store := repository.NewFileBookingRepository(afero.NewOsFs(), cfg.Ledger.Path, zlog)
	ledger := booking.NewBookingService(store, inventory.New(), booking.WithLogger(zlog))
	projector := projection.NewProjector(ledger, repository.NewBookingProjection(pool), zlog)

	var wg sync.WaitGroup
	if cfg.Kafka.Enabled() {
		events := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, zlog)
		defer events.Close()
		consume(ctx, &wg, zlog, events, projector.Apply)

		if cfg.Kafka.NotificationsTopic != "" {
			notifications := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zlog)
			defer notifications.Close()
			consume(ctx, &wg, zlog, notifications, email.NewSender(zlog).Send)
		}
	} else {
		zlog.Warn("kafka disabled, projection relies on reconcile only")
	}

	reconcile := func() {
		missing, err := projector.Reconcile(ctx)
		if err != nil {
			zlog.Error("reconcile projection", zap.Error(err))
			return
		}
		if missing > 0 {
			zlog.Info("reconciled projection", zap.Int("missing", missing))
		}
	}
	reconcile()

	ticker := time.NewTicker(time.Duration(cfg.Worker.ReconcileMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reconcile()
		case <-ctx.Done():
			zlog.Info("shutting down worker")
			wg.Wait()
			return
		}
	}
}

func consume(ctx context.Context, wg *sync.WaitGroup, zlog *zap.Logger, consumer *kafka.Consumer, handler kafka.EventHandler) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Consume(ctx, handler); err != nil {
			zlog.Error("consumer stopped", zap.Error(err))
		}
	}()
}
