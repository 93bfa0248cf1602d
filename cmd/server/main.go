package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogueapp "github.com/showring/backend/internal/application/catalogue"
	checklistapp "github.com/showring/backend/internal/application/checklist"
	checkoutapp "github.com/showring/backend/internal/application/checkout"
	eligibilityapp "github.com/showring/backend/internal/application/eligibility"
	judgingapp "github.com/showring/backend/internal/application/judging"
	"github.com/showring/backend/internal/domain/payment"
	"github.com/showring/backend/internal/infrastructure/auth"
	"github.com/showring/backend/internal/infrastructure/cache"
	"github.com/showring/backend/internal/infrastructure/config"
	"github.com/showring/backend/internal/infrastructure/event"
	"github.com/showring/backend/internal/infrastructure/logger"
	"github.com/showring/backend/internal/infrastructure/notification"
	infrapayment "github.com/showring/backend/internal/infrastructure/payment"
	"github.com/showring/backend/internal/infrastructure/persistence"
	"github.com/showring/backend/internal/infrastructure/telemetry"
	"github.com/showring/backend/internal/interfaces/http/handler"
	"github.com/showring/backend/internal/interfaces/http/middleware"
	"github.com/showring/backend/internal/interfaces/http/router"
	"github.com/showring/backend/internal/interfaces/http/templates"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, cfg.App.Env)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting show ring backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialise tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      logger.GormLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		Tracing: telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBName:          cfg.Database.DBName,
		},
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	showRepo := persistence.NewGormShowRepository(db.DB)
	classRepo := persistence.NewGormClassRepository(db.DB)
	sundryRepo := persistence.NewGormSundryRepository(db.DB)
	dogRepo := persistence.NewGormDogRepository(db.DB)
	achievementRepo := persistence.NewGormAchievementRepository(db.DB)
	entryRepo := persistence.NewGormEntryRepository(db.DB)
	resultRepo := persistence.NewGormResultRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	contractRepo := persistence.NewGormJudgeContractRepository(db.DB)
	checklistRepo := persistence.NewGormChecklistRepository(db.DB)
	catalogueRepo := persistence.NewGormCatalogueRepository(db.DB)
	contacts := persistence.NewGormContactDirectory(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	metrics := telemetry.NewMetrics(cfg.App.Name)

	eventBus := event.NewInMemoryEventBus(event.BusConfig{Mode: event.Async, Logger: log})
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Event bus did not drain", zap.Error(err))
		}
	}()

	idempotency, err := cache.NewIdempotencyStore(ctx, cfg.Idempotency, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialise idempotency store", zap.Error(err))
	}
	if closer, ok := idempotency.(interface{ Close() error }); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	stripeCfg := &infrapayment.StripeConfig{
		Enabled:        cfg.Stripe.Enabled,
		SecretKey:      cfg.Stripe.SecretKey,
		PublishableKey: cfg.Stripe.PublishableKey,
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		Currency:       cfg.Stripe.Currency,
	}
	var gateway payment.Gateway
	if stripeCfg.Enabled {
		gateway, err = infrapayment.NewStripeGateway(stripeCfg, log)
		if err != nil {
			log.Fatal("Failed to initialise Stripe gateway", zap.Error(err))
		}
	} else {
		log.Warn("Stripe disabled, using the stub payment gateway")
		gateway = infrapayment.NewStubGateway(log)
	}

	// Application services
	checkoutService := checkoutapp.NewService(checkoutapp.ServiceConfig{
		Shows:          showRepo,
		Classes:        classRepo,
		Sundries:       sundryRepo,
		Dogs:           dogRepo,
		Entries:        entryRepo,
		Orders:         orderRepo,
		Payments:       paymentRepo,
		Scope:          txScope.CheckoutScope(),
		Gateway:        gateway,
		EventPublisher: eventBus,
		Currency:       cfg.Stripe.Currency,
		Logger:         log,
	})
	amendmentService := checkoutapp.NewAmendmentService(checkoutapp.AmendmentServiceConfig{
		Shows:    showRepo,
		Classes:  classRepo,
		Entries:  entryRepo,
		Payments: paymentRepo,
		Scope:    txScope.CheckoutScope(),
		Gateway:  gateway,
		Currency: cfg.Stripe.Currency,
		Logger:   log,
	})
	eligibilityService := eligibilityapp.NewService(dogRepo, resultRepo, achievementRepo, log)
	catalogueService := catalogueapp.NewService(catalogueapp.ServiceConfig{
		Shows:      showRepo,
		Repository: catalogueRepo,
		Scope:      txScope.CatalogueScope(),
		Logger:     log,
	})
	judgingService := judgingapp.NewService(judgingapp.ServiceConfig{
		Shows:          showRepo,
		Contracts:      contractRepo,
		Scope:          txScope.JudgingScope(),
		EventPublisher: eventBus,
		OfferTTL:       cfg.Judging.OfferTTL,
		Logger:         log,
	})
	checklistService := checklistapp.NewService(showRepo, checklistRepo, log)

	// Event subscriptions
	notifier := notification.NewLogSender(log, nil)
	eventBus.Subscribe(telemetry.NewEventCounter(metrics))
	eventBus.Subscribe(judgingapp.NewOfferNotificationHandler(showRepo, notifier, cfg.Judging.PublicBaseURL, log))
	eventBus.Subscribe(checkoutapp.NewOrderPaidHandler(showRepo, contacts, notifier, log))

	pages, err := templates.Load()
	if err != nil {
		log.Fatal("Failed to parse page templates", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	handlers := router.Handlers{
		Checkout:    handler.NewCheckoutHandler(checkoutService, amendmentService, metrics, log),
		Eligibility: handler.NewEligibilityHandler(eligibilityService, metrics, log),
		Catalogue:   handler.NewCatalogueHandler(catalogueService, metrics, log),
		Checklist:   handler.NewChecklistHandler(checklistService, metrics, log),
		Judging:     handler.NewJudgingHandler(judgingService, metrics, log),
		OfferPages:  handler.NewOfferPageHandler(judgingService, pages, metrics, log),
		System:      handler.NewSystemHandler(version, map[string]handler.Pinger{"database": db}),
	}
	if stripeCfg.Enabled {
		webhookService := checkoutapp.NewStripeWebhookService(checkoutapp.StripeWebhookServiceConfig{
			Config:      stripeCfg,
			Handler:     checkoutService,
			Idempotency: idempotency,
			TTL:         cfg.Idempotency.TTL,
			Logger:      log,
		})
		handlers.StripeWebhook = handler.NewStripeWebhookHandler(webhookService, metrics, log)
	}

	engine := router.New(router.Options{
		Env:  cfg.App.Env,
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
			SkipPaths:   []string{"/health", "/metrics"},
		},
		Identifier: jwtService,
		Metrics:    metrics,
		Logger:     log,
	}, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
