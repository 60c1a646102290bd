// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	auditHTTP "github.com/allisson/leasehold/internal/audit/http"
	auditRepository "github.com/allisson/leasehold/internal/audit/repository"
	auditUseCase "github.com/allisson/leasehold/internal/audit/usecase"
	"github.com/allisson/leasehold/internal/authz"
	"github.com/allisson/leasehold/internal/config"
	"github.com/allisson/leasehold/internal/database"
	"github.com/allisson/leasehold/internal/http"
	leaseHTTP "github.com/allisson/leasehold/internal/lease/http"
	leaseRepository "github.com/allisson/leasehold/internal/lease/repository"
	leaseService "github.com/allisson/leasehold/internal/lease/service"
	leaseUseCase "github.com/allisson/leasehold/internal/lease/usecase"
	"github.com/allisson/leasehold/internal/metrics"
	syncRepository "github.com/allisson/leasehold/internal/sync/repository"
	syncService "github.com/allisson/leasehold/internal/sync/service"
	syncUseCase "github.com/allisson/leasehold/internal/sync/usecase"
)

// Container holds all application dependencies and provides methods to
// access them. Components are created lazily on first access.
type Container struct {
	config *config.Config

	logger    *slog.Logger
	db        *sql.DB
	txManager database.TxManager

	tokenService    *leaseService.TokenService
	enforcer        *authz.Enforcer
	auditUseCase    *auditUseCase.AuditUseCase
	leaseUseCase    *leaseUseCase.LeaseUseCase
	queueUseCase    *syncUseCase.QueueUseCase
	eventBus        *syncService.EventBus
	transport       *syncService.HTTPTransport
	deliveryWorker  *syncUseCase.DeliveryWorker
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	tokenServiceInit    sync.Once
	authzInit           sync.Once
	auditUseCaseInit    sync.Once
	queueUseCaseInit    sync.Once
	eventBusInit        sync.Once
	transportInit       sync.Once
	deliveryWorkerInit  sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{Path: c.config.DatabasePath})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = err
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// TokenService returns the delegation token service.
func (c *Container) TokenService() *leaseService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = leaseService.NewTokenService(
			c.config.SigningSecret,
			c.config.SigningSecretFile,
		)
	})
	return c.tokenService
}

// AuditUseCase returns the audit use case.
func (c *Container) AuditUseCase() (*auditUseCase.AuditUseCase, error) {
	c.auditUseCaseInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}
		c.auditUseCase = auditUseCase.NewAuditUseCase(
			auditRepository.NewSQLiteAuditRepository(db),
			c.Logger(),
		)
	})
	if err, exists := c.initErrors["auditUseCase"]; exists {
		return nil, err
	}
	return c.auditUseCase, nil
}

// LeaseUseCase returns the lease use case with the enforcement engine bound.
func (c *Container) LeaseUseCase() (*leaseUseCase.LeaseUseCase, error) {
	if err := c.initAuthz(); err != nil {
		return nil, err
	}
	return c.leaseUseCase, nil
}

// Enforcer returns the enforcement engine.
func (c *Container) Enforcer() (*authz.Enforcer, error) {
	if err := c.initAuthz(); err != nil {
		return nil, err
	}
	return c.enforcer, nil
}

// initAuthz builds the lease use case and the enforcement engine together.
// The enforcer consults the lease use case for lease-delegated scopes while
// the lease use case gates its mutations through the enforcer, so they are
// constructed in two phases.
func (c *Container) initAuthz() error {
	c.authzInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["authz"] = err
			return
		}
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["authz"] = err
			return
		}
		auditUC, err := c.AuditUseCase()
		if err != nil {
			c.initErrors["authz"] = err
			return
		}

		leaseUC := leaseUseCase.NewLeaseUseCase(
			leaseRepository.NewSQLiteLeaseRepository(db),
			txManager,
			auditUC,
			c.TokenService(),
		)
		enforcer := authz.NewEnforcer(
			authz.NewCapabilityRegistry(),
			authz.NewRoleRegistry(),
			leaseUC,
		)
		leaseUC.BindEnforcer(enforcer)

		c.leaseUseCase = leaseUC
		c.enforcer = enforcer
	})
	if err, exists := c.initErrors["authz"]; exists {
		return err
	}
	return nil
}

// QueueUseCase returns the sync queue use case.
func (c *Container) QueueUseCase() (*syncUseCase.QueueUseCase, error) {
	c.queueUseCaseInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["queueUseCase"] = err
			return
		}
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["queueUseCase"] = err
			return
		}
		enforcer, err := c.Enforcer()
		if err != nil {
			c.initErrors["queueUseCase"] = err
			return
		}
		c.queueUseCase = syncUseCase.NewQueueUseCase(
			syncRepository.NewSQLiteQueueRepository(db),
			txManager,
			enforcer,
			c.config.WorkerMaxAttempts,
		)
	})
	if err, exists := c.initErrors["queueUseCase"]; exists {
		return nil, err
	}
	return c.queueUseCase, nil
}

// EventBus returns the in-process sync notification bus.
func (c *Container) EventBus() *syncService.EventBus {
	c.eventBusInit.Do(func() {
		c.eventBus = syncService.NewEventBus()
	})
	return c.eventBus
}

// Transport returns the sync HTTP transport, or nil when no sync endpoint
// is configured.
func (c *Container) Transport() *syncService.HTTPTransport {
	c.transportInit.Do(func() {
		if c.config.SyncEndpoint == "" {
			return
		}
		c.transport = syncService.NewHTTPTransport(c.config.SyncEndpoint, 10*time.Second)
	})
	return c.transport
}

// DeliveryWorker returns the delivery worker, or nil when delivery is not
// configured (no sync endpoint).
func (c *Container) DeliveryWorker() (*syncUseCase.DeliveryWorker, error) {
	c.deliveryWorkerInit.Do(func() {
		transport := c.Transport()
		if transport == nil {
			return
		}

		queueUC, err := c.QueueUseCase()
		if err != nil {
			c.initErrors["deliveryWorker"] = err
			return
		}
		enforcer, err := c.Enforcer()
		if err != nil {
			c.initErrors["deliveryWorker"] = err
			return
		}
		auditUC, err := c.AuditUseCase()
		if err != nil {
			c.initErrors["deliveryWorker"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["deliveryWorker"] = err
			return
		}

		c.deliveryWorker = syncUseCase.NewDeliveryWorker(
			syncUseCase.WorkerConfig{Interval: c.config.WorkerInterval},
			syncUseCase.NewQueueManagerWithMetrics(queueUC, businessMetrics),
			transport,
			transport,
			enforcer,
			authz.Elevated("delivery-worker"),
			auditUC,
			c.EventBus(),
			c.Logger(),
		)
	})
	if err, exists := c.initErrors["deliveryWorker"]; exists {
		return nil, err
	}
	return c.deliveryWorker, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. Falls back to a
// no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the admin HTTP server.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		leaseUC, err := c.LeaseUseCase()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		auditUC, err := c.AuditUseCase()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		logger := c.Logger()
		var meterProvider otelmetric.MeterProvider
		if provider != nil {
			meterProvider = provider.MeterProvider()
		}

		leaseManager := leaseUseCase.NewLeaseManagerWithMetrics(leaseUC, businessMetrics)

		c.httpServer = http.NewServer(
			c.config,
			leaseHTTP.NewLeaseHandler(leaseManager, logger),
			auditHTTP.NewAuditHandler(auditUC, c.config.AuditListLimit, logger),
			c.TokenService(),
			meterProvider,
			logger,
		)
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("admin server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}
	return nil
}

// initLogger creates a structured logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}
