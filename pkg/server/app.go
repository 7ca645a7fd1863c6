package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "ReconFlow/internal/domain/repository"
	"ReconFlow/internal/usecase"
	pkgch "ReconFlow/pkg/clickhouse"
	"ReconFlow/pkg/config"
	xhttp "ReconFlow/pkg/http"
	pkgkafka "ReconFlow/pkg/kafka"
	applogger "ReconFlow/pkg/logger"
)

// App encapsulates the entire application lifecycle: the HTTP API, the
// record ingest consumer and the anomaly sweeper.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	handler    xhttp.Handler
	consumer   *pkgkafka.Consumer
	ingest     pkgkafka.MessageHandler
	monitor    *usecase.AnomalyMonitor
	publisher  domrepo.AnomalyPublisher
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	ingest pkgkafka.MessageHandler,
	monitor *usecase.AnomalyMonitor,
	publisher domrepo.AnomalyPublisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		handler:   handler,
		consumer:  consumer,
		ingest:    ingest,
		monitor:   monitor,
		publisher: publisher,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout.Std(), a.cfg.Server.WriteTimeout.Std(), a.cfg.Server.ShutdownTimeout.Std()),
		xhttp.WithRequestMetrics(a.l, time.Second),
	)

	// Start record ingest consumer if configured
	if a.consumer != nil && a.ingest != nil {
		a.consumer.RegisterHandler(a.ingest)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.l.Info("kafka consumer started", applogger.String("topic", a.ingest.Topic()))
	}

	// Start anomaly sweeper
	if a.monitor != nil && a.cfg.Monitor.Enabled {
		go func() {
			if err := a.monitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.l.Error("anomaly monitor error", applogger.Error(err))
			}
		}()
		a.l.Info("anomaly monitor started",
			applogger.Duration("interval", a.cfg.Monitor.Interval.Std()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Shutdown HTTP server first so no new work arrives
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close publisher (owns the Kafka producer)
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
