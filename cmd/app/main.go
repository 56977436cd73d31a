package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightledger/config"
	"github.com/Domenick1991/flightledger/internal/bootstrap"
	"github.com/Domenick1991/flightledger/internal/cache"
	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/inventory"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/Domenick1991/flightledger/internal/repository"
	"github.com/Domenick1991/flightledger/internal/service/booking"
	"github.com/Domenick1991/flightledger/internal/service/flights"
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

	zlog, err := logger.New(cfg.Log, "flightledger-api")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seats := inventory.New()
	store := repository.NewFileBookingRepository(afero.NewOsFs(), cfg.Ledger.Path, zlog)

	opts := []booking.BookingServiceOption{booking.WithLogger(zlog)}

	var overviewCache flights.FlightCache
	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Flight.Number, time.Duration(cfg.Booking.OverviewCacheTTL)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			zlog.Warn("redis unavailable, cache calls will fail over to the ledger", zap.Error(err))
		}
		overviewCache = redisCache
		opts = append(opts, booking.WithCache(
			redisCache,
			time.Duration(cfg.Booking.LedgerLockTTL)*time.Second,
			time.Duration(cfg.Booking.LedgerLockWaitMs)*time.Millisecond,
		))
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zlog)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			zlog.Warn("kafka unavailable, booking events will be dropped", zap.Error(err))
		}
		opts = append(opts,
			booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	bookingService := booking.NewBookingService(store, seats, opts...)
	flightService := flights.NewFlightService(domain.Flight{
		FlightNo:      cfg.Flight.Number,
		From:          cfg.Flight.From,
		To:            cfg.Flight.To,
		DepartureTime: cfg.Flight.DepartureTime,
		ArrivalTime:   cfg.Flight.ArrivalTime,
	}, seats, bookingService, overviewCache, zlog)

	zlog.Info("ledger opened", zap.String("path", store.Path()), zap.Int("seats", seats.Len()))

	if err := bootstrap.Run(ctx, cfg, zlog, flightService, bookingService); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}
