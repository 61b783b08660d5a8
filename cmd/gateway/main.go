package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/api"
	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/application/services"
	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/notify"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/phonepe"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/okpuja-payments/internal/metrics"
	"github.com/DanielPopoola/okpuja-payments/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payments service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"phonepe_env", cfg.PhonePe.Env,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := postgres.NewPaymentOrderRepository(db)
	refundRepo := postgres.NewRefundRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	eventRepo := postgres.NewWebhookEventRepository(db)

	var tokens phonepe.TokenStore = phonepe.NewMemoryTokenStore()
	if cfg.Redis.Addr != "" {
		rdb, err := phonepe.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		tokens = phonepe.NewRedisTokenStore(rdb, cfg.PhonePe.ClientID)
	}
	gateway := phonepe.NewClient(cfg.PhonePe, tokens, logger)

	var notifier application.Notifier = notify.NewLogNotifier(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := notify.InitProducer(cfg.Kafka.Brokers)
		if err != nil {
			logger.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		notifier = notify.NewKafkaNotifier(producer, cfg.Kafka.Topic, logger)
	}

	payments := services.NewPaymentService(orderRepo, gateway, db, cfg.Payment, cfg.PhonePe.RedirectURL, logger)
	refunds := services.NewRefundService(orderRepo, refundRepo, gateway, db, logger)
	materializer := services.NewBookingMaterializer(cartRepo, bookingRepo, catalogRepo, notifier, db, cfg.Booking, logger)
	reconciler := services.NewReconciler(payments, materializer, logger)

	sweepWorker := worker.NewSweepWorker(orderRepo, reconciler, cfg.Worker, logger)
	expirationWorker := worker.NewExpirationWorker(payments, cfg.Worker.ExpiryInterval, logger)

	h := handlers.NewHandlers(handlers.Services{
		Payments:  payments,
		Checkout:  services.NewCheckoutService(payments, orderRepo, cartRepo, catalogRepo, db, logger),
		Query:     services.NewQueryService(orderRepo, cartRepo, bookingRepo, payments, refunds, reconciler),
		Refunds:   refunds,
		Webhooks:  services.NewWebhookService(eventRepo, reconciler, refunds, logger),
		Redirects: services.NewRedirectResolver(orderRepo, reconciler, cfg.Redirect, cfg.Payment.OrderPrefix, logger),
		Sweep:     sweepWorker,
		Expiry:    expirationWorker,
	}, cfg.Webhook, logger)

	mux := http.NewServeMux()
	h.Register(mux, middleware.NewAuthenticator(cfg.Auth, logger))
	if err := api.RegisterDocsRoutes(mux); err != nil {
		logger.Error("failed to load api document", "error", err)
		os.Exit(1)
	}
	mux.Handle("GET /metrics", metrics.Handler())

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout, "/payments/redirect/")(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go sweepWorker.Start(workerCtx)
	go expirationWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
