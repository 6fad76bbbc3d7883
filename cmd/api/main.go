package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/application/service"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/config"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/infrastructure/database"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/infrastructure/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/infrastructure/storage"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/handler"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/middleware"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/routes"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/events"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/logger"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/observability"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/printer"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	otelCfg := observability.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: version,
		Environment:    cfg.App.Env,
		Endpoint:       cfg.Otel.Endpoint,
		AuthHeader:     cfg.Otel.AuthHeader,
	}
	shutdownTracing, err := observability.SetupTracing(ctx, otelCfg)
	if err != nil {
		zapLogger.Warn("tracing disabled", zap.Error(err))
	}

	logProvider, shutdownLogging, err := observability.SetupLogging(ctx, otelCfg)
	if err != nil {
		zapLogger.Warn("log export disabled", zap.Error(err))
	}
	if logProvider != nil {
		zapLogger = logger.WithOTel(zapLogger, cfg.App.Name, logProvider)
	}

	// Connect to database
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, zapLogger); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	billRepo := repository.NewBillRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	salesReportRepo := repository.NewSalesReportRepository(db)
	unitOfWork := repository.NewUnitOfWork(db)

	if cfg.Seed.Enabled {
		if err := database.SeedDefaultData(ctx, productRepo, zapLogger); err != nil {
			zapLogger.Warn("failed to seed sample products", zap.Error(err))
		}
	}

	if purged, err := idempotencyRepo.Purge(ctx, time.Now()); err != nil {
		zapLogger.Warn("failed to purge expired idempotency keys", zap.Error(err))
	} else if purged > 0 {
		zapLogger.Info("purged expired idempotency keys", zap.Int64("count", purged))
	}

	artifacts, err := storage.NewLocalArtifactStore(cfg.Storage.Path)
	if err != nil {
		zapLogger.Fatal("failed to open invoice storage", zap.String("path", cfg.Storage.Path), zap.Error(err))
	}

	var publisher events.Publisher = events.NewNullPublisher()
	if cfg.Kafka.Broker != "" {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic)
		zapLogger.Info("publishing bill events", zap.String("broker", cfg.Kafka.Broker), zap.String("topic", cfg.Kafka.Topic))
	}

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		zapLogger.Warn("failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	billingService := service.NewBillingService(productRepo, billRepo, unitOfWork, artifacts, publisher, zapLogger)
	printerService := service.NewPrinterService(thermalPrinter, billRepo, entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
	}, cfg.Printer.Type, cfg.Printer.Width, zapLogger)
	reportService := service.NewReportService(salesReportRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product: handler.NewProductHandler(billingService),
		Bill:    handler.NewBillHandler(billingService),
		Printer: handler.NewPrinterHandler(printerService),
		Report:  handler.NewReportHandler(reportService),
	}

	rateLimiter := middleware.NewUserRateLimiter(
		middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      utils.NewJWTManager(cfg.JWT.Secret),
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          zapLogger,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("server starting",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("error during shutdown", zap.Error(err))
	}

	rateLimiter.Stop()
	if err := publisher.Close(); err != nil {
		zapLogger.Warn("failed to close event publisher", zap.Error(err))
	}
	if err := thermalPrinter.Close(); err != nil {
		zapLogger.Warn("failed to close printer", zap.Error(err))
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			zapLogger.Warn("failed to flush traces", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("server stopped gracefully")

	if err := shutdownLogging(shutdownCtx); err != nil {
		log.Printf("failed to flush logs: %v", err)
	}
}
