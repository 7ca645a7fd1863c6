//go:build wireinject
// +build wireinject

package di

import (
	"ReconFlow/pkg/config"
	"ReconFlow/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics and logging
		ProvideMetrics,
		ProvideLogger,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideIntakeStore,
		ProvideClearingStore,
		ProvideSettlementStore,
		ProvideRecordWriter,
		ProvideAnomalyPublisher,

		// Engines
		ProvideAggregator,
		ProvideReconciler,
		ProvideAnomalyDetector,
		ProvideSynthesizer,
		ProvidePerformanceCalculator,
		ProvideDashboardBuilder,

		// HTTP surface and background workers
		ProvideCache,
		ProvideDashboardHandler,
		ProvideRecordIngestHandler,
		ProvideAnomalyMonitor,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
