package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	auditHTTP "github.com/allisson/leasehold/internal/audit/http"
	"github.com/allisson/leasehold/internal/config"
	leaseHTTP "github.com/allisson/leasehold/internal/lease/http"
	"github.com/allisson/leasehold/internal/metrics"
)

// Server is the administrative HTTP server.
type Server struct {
	server      *http.Server
	tlsCertFile string
	tlsKeyFile  string
	logger      *slog.Logger
}

// NewServer creates the admin server with all routes and middleware wired.
func NewServer(
	cfg *config.Config,
	leaseHandler *leaseHTTP.LeaseHandler,
	auditHandler *auditHTTP.AuditHandler,
	verifier TokenVerifier,
	meterProvider otelmetric.MeterProvider,
	logger *slog.Logger,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := router.Group("/v1")
	v1.Use(AdminAuthMiddleware(cfg.AdminSecret, verifier, logger))
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	v1.GET("/leases", leaseHandler.ListHandler)
	v1.POST("/leases", leaseHandler.CreateHandler)
	v1.POST("/leases/:id/revoke", leaseHandler.RevokeHandler)
	v1.POST("/leases/:id/token", leaseHandler.TokenHandler)
	v1.GET("/audit", auditHandler.ListHandler)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		tlsCertFile: cfg.TLSCertFile,
		tlsKeyFile:  cfg.TLSKeyFile,
		logger:      logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the admin HTTP server, with TLS when certificate material is
// configured.
func (s *Server) Start(ctx context.Context) error {
	useTLS := s.tlsCertFile != "" && s.tlsKeyFile != ""
	s.logger.Info("starting admin server",
		slog.String("addr", s.server.Addr),
		slog.Bool("tls", useTLS),
	)

	var err error
	if useTLS {
		err = s.server.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile)
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start admin server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the admin HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down admin server")
	return s.server.Shutdown(ctx)
}
