package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/erp/bills/internal/application/billing"
	"github.com/erp/bills/internal/infrastructure/config"
	"github.com/erp/bills/internal/infrastructure/event"
	"github.com/erp/bills/internal/infrastructure/logger"
	"github.com/erp/bills/internal/infrastructure/messaging/rabbitmq"
	"github.com/erp/bills/internal/infrastructure/messaging/redisstream"
	"github.com/erp/bills/internal/infrastructure/migration"
	"github.com/erp/bills/internal/infrastructure/persistence"
	"github.com/erp/bills/internal/infrastructure/telemetry"
	"github.com/erp/bills/internal/interfaces/http/handler"
	"github.com/erp/bills/internal/interfaces/http/middleware"
	"github.com/erp/bills/internal/interfaces/http/router"
	"github.com/erp/bills/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const meterName = "github.com/erp/bills"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.NewForEnvironment(cfg.App.Env, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting bills API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("messaging_driver", cfg.Messaging.Driver),
	)

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	meter := meterProvider.Meter(meterName)
	billingMetrics, err := telemetry.NewBillingMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create billing metrics", zap.Error(err))
	}
	httpMetrics, err := telemetry.NewHTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log,
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(&cfg.Database, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Integration event publisher
	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize event publisher", zap.Error(err))
	}

	// Application services
	createBillService := appbilling.NewCreateBillService(
		persistence.NewGormTransactionScope(db.DB),
		publisher,
		log.Named("billing"),
		appbilling.WithEventSource(cfg.Billing.EventSource),
		appbilling.WithMetrics(billingMetrics),
	)
	listBillsService := appbilling.NewListBillsService(persistence.NewGormBillReadRepository(db.DB))
	listBillsMinimalService := appbilling.NewListBillsService(persistence.NewSQLBillSummaryReader(sqlDB))

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS: middleware.CORSConfig{
			AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
			AllowMethods:  cfg.HTTP.CORSAllowMethods,
			AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		},
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		HTTPMetrics: httpMetrics,
	}, log)

	router.RegisterSystemRoutes(engine, handler.NewSystemHandler(cfg.App.Name, db))
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.BillRoutes(handler.NewBillHandler(
			createBillService,
			listBillsService,
			listBillsMinimalService,
		))).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Release dependencies in reverse order of creation
	if err := closePublisher(); err != nil {
		log.Error("Error closing event publisher", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newPublisher builds the integration event publisher selected by
// messaging.driver. The returned func releases its connections.
func newPublisher(cfg *config.Config, log *zap.Logger) (appbilling.IntegrationEventPublisher, func() error, error) {
	switch cfg.Messaging.Driver {
	case config.MessagingDriverRabbitMQ:
		p, err := rabbitmq.NewPublisher(rabbitmq.Options{
			URL:            cfg.Messaging.RabbitMQURL,
			Queue:          cfg.Messaging.RabbitMQQueue,
			PublishTimeout: cfg.Messaging.PublishTimeout,
		}, log.Named("rabbitmq"))
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil

	case config.MessagingDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		p, err := redisstream.NewPublisher(client, redisstream.Options{
			Stream:         cfg.Messaging.RedisStream,
			MaxLen:         cfg.Messaging.RedisMaxLen,
			PublishTimeout: cfg.Messaging.PublishTimeout,
		}, log.Named("redisstream"))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return p, client.Close, nil

	case config.MessagingDriverLog:
		bus := event.NewInMemoryEventBus(log.Named("eventbus"))
		bus.Subscribe(event.NewLoggingHandler(log.Named("events")))
		if err := bus.Start(context.Background()); err != nil {
			return nil, nil, err
		}
		return event.NewBusPublisher(bus), func() error {
			return bus.Stop(context.Background())
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown messaging driver %q", cfg.Messaging.Driver)
	}
}

// runMigrations applies the embedded schema migrations on a dedicated
// connection; closing the migrator closes it.
func runMigrations(dbCfg *config.DatabaseConfig, log *zap.Logger) error {
	migrateDB, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}

	m, err := migration.NewFromFS(migrateDB, migrations.FS, log)
	if err != nil {
		_ = migrateDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()

	return m.Up()
}
