package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentnest/internal/app/policies"
	bookingapp "rentnest/internal/app/services/booking"
	domainbooking "rentnest/internal/domain/booking"
	"rentnest/internal/domain/listings"
	"rentnest/internal/domain/pricing"
	"rentnest/internal/infra/broker/kafka"
	"rentnest/internal/infra/config"
	"rentnest/internal/infra/db/mongo"
	ginserver "rentnest/internal/infra/http/gin"
	"rentnest/internal/infra/obs"
	"rentnest/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, ginserver.Handlers{
		Booking:        ginserver.BookingHandler{Service: app.engine},
		AuthMiddleware: ginserver.JWTAuth{Secret: []byte(cfg.JWTSecret)}.Handle,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	engine *bookingapp.Service
	ready  func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	var (
		bookings domainbooking.Repository
		catalog  listings.Catalog
		cleanups []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	ready := func() error { return nil }

	if cfg.MongoURI != "" {
		client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanups = append(cleanups, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		})
		repo := mongo.NewBookingRepository(client.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("booking index creation failed", "error", err)
		}
		bookings = repo
		catalog = mongo.NewListingCatalog(client.DB)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("using mongo store", "db", cfg.MongoDB)
	} else {
		bookings = memory.NewBookingRepository()
		catalog = memory.NewListingCatalog()
		logger.Warn("MONGO_URI not set, using in-memory store")
	}

	var notifier policies.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanups = append(cleanups, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		})
		notifier = kafka.Notifier{Producer: producer, Topic: cfg.BookingTopic, Logger: logger}
		logger.Info("using kafka notifier", "topic", cfg.BookingTopic)
	} else {
		notifier = &memory.Notifier{Logger: logger}
		logger.Warn("KAFKA_BROKERS not set, notifications logged only")
	}

	engine := bookingapp.NewService(bookings, catalog, pricing.NewCalculator(cfg.ServiceFeeBps), notifier, logger)
	return application{engine: engine, ready: ready}, cleanup, nil
}
