package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/httpapi"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payment"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/profile"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db pool", zap.Error(err))
	}
	defer pool.Close()

	sqlDB, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	defer sqlDB.Close()

	// --- sessions ---
	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis ping", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		logger.Info("sessions in redis", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR not set, sessions kept in memory")
	}

	// --- payments ---
	var processor payment.Processor = payment.Disabled{}
	if cfg.PaymentsEnabled() {
		processor = payment.NewStripeProcessor(cfg.StripeSecretKey)
	} else {
		logger.Warn("stripe keys not set, checkout continues without payment intents")
	}
	webhook := payment.NewStripeWebhook(cfg.StripeWebhookSecret)

	deps := checkout.Deps{
		Sessions: sessions,
		Catalog:  catalog.NewPostgresRepository(pool),
		Orders:   order.NewRepository(sqlDB),
		Payments: processor,
		Profiles: profile.NewPostgresRepository(pool),
		Logger:   logger,
	}

	// --- AMQP ---
	var rabbit *amqp.Connection
	if cfg.MessagingEnabled() {
		rabbit, err = events.DialRabbit(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatal("rabbit dial", zap.Error(err))
		}
		defer rabbit.Close()

		pub, err := events.NewPublisher(rabbit)
		if err != nil {
			logger.Fatal("rabbit publisher", zap.Error(err))
		}
		defer pub.Close()
		deps.Events = pub.WithSequencer(sequence.NewOrderSequence(sqlDB))
	} else {
		logger.Info("messaging disabled, order events are not published")
	}

	svc := checkout.NewService(deps, checkout.Config{
		Currency:   cfg.StripeCurrency,
		DepositSKU: cfg.DepositSKU,
	})

	if rabbit != nil {
		handler := events.PaymentSucceededHandler(svc, dedup.NewPaymentCheckpoints(sqlDB), logger)
		if err := events.StartConsumer(ctx, rabbit, events.PaymentSucceededRoutingKey, handler, logger); err != nil {
			logger.Fatal("start consumer", zap.Error(err))
		}
	}

	// --- HTTP ---
	h := httpapi.NewHandler(svc, httpapi.Options{
		Webhook:     webhook,
		PublicKey:   cfg.StripePublicKey,
		ServiceName: events.ServiceName,
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("http server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()

	logger.Info("shutdown complete")
}

func newLogger(format string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if format == "console" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("service", events.ServiceName))
}
