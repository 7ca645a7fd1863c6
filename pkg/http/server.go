package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"ReconFlow/pkg/http/middleware"
	applogger "ReconFlow/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORS            bool
	MetricsLogger   *applogger.Logger
	SlowThreshold   time.Duration
}

// ServerOption configures the server at construction time.
type ServerOption func(*ServerConfig)

func WithHost(host string) ServerOption {
	return func(c *ServerConfig) { c.Host = host }
}

func WithPort(port int) ServerOption {
	return func(c *ServerConfig) { c.Port = port }
}

func WithTimeouts(read, write, shutdown time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.ReadTimeout = read
		c.WriteTimeout = write
		c.ShutdownTimeout = shutdown
	}
}

func WithCORS(enabled bool) ServerOption {
	return func(c *ServerConfig) { c.CORS = enabled }
}

// WithRequestMetrics instruments every route with Prometheus counters and
// slow-request logging.
func WithRequestMetrics(l *applogger.Logger, slowThreshold time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.MetricsLogger = l
		c.SlowThreshold = slowThreshold
	}
}

// Server is the Echo-based HTTP front. It owns middleware setup and the
// /metrics scrape endpoint; route registration is delegated to Handler.
type Server struct {
	echo *echo.Echo
	cfg  *ServerConfig
}

func NewServer(handler Handler, opts ...ServerOption) *Server {
	cfg := &ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CORS:            true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLogging("/metrics", "/api/health"))
	if cfg.MetricsLogger != nil {
		e.Use(echo.WrapMiddleware(middleware.Metrics(cfg.MetricsLogger, cfg.SlowThreshold)))
	}

	if cfg.CORS {
		// Read-only API, so GET plus preflight is the whole surface.
		e.Use(middleware.CORS(middleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	if handler != nil {
		handler.RegisterRoutes(e)
	}

	// Prometheus scrape endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{echo: e, cfg: cfg}
}

// Start begins serving in the background and returns immediately.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	go func() {
		log.Printf("http server: listening on %s", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	return nil
}

// Stop drains in-flight requests within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Println("http server: stopped gracefully")
	return nil
}

// Echo exposes the underlying instance, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
