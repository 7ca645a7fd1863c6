package di

import (
	"context"
	"fmt"
	"time"

	domrepo "ReconFlow/internal/domain/repository"
	"ReconFlow/internal/handler/api"
	internalrepo "ReconFlow/internal/repository"
	icache "ReconFlow/internal/service/cache"
	"ReconFlow/internal/usecase"
	pkgch "ReconFlow/pkg/clickhouse"
	"ReconFlow/pkg/config"
	pkgkafka "ReconFlow/pkg/kafka"
	applogger "ReconFlow/pkg/logger"
	"ReconFlow/pkg/metrics"
	"ReconFlow/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout.Std(), cfg.ClickHouse.ReadTimeout.Std(), cfg.ClickHouse.WriteTimeout.Std()),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime.Std()),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS reconflow",
		"CREATE TABLE IF NOT EXISTS " + internalrepo.IntakeTable +
			" (reference String, nature String, origin String, status String, value_code String," +
			" validated UInt8, generated UInt8, amount Float64, created_at DateTime)" +
			" ENGINE=MergeTree ORDER BY (created_at, reference)",
		"CREATE TABLE IF NOT EXISTS " + internalrepo.ClearingTable +
			" (reference String, status String, direction String, file_type String," +
			" needs_verify UInt8, sent_to_settlement UInt8, before_settlement UInt8," +
			" image_status UInt8, amount Float64, created_at DateTime)" +
			" ENGINE=MergeTree ORDER BY (created_at, reference)",
		"CREATE TABLE IF NOT EXISTS " + internalrepo.SettlementTable +
			" (reference String, balanced UInt8, duplicate UInt8, not_received UInt8," +
			" amount Float64, created_at DateTime)" +
			" ENGINE=MergeTree ORDER BY (created_at, reference)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger.Std()),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout.Std(), cfg.Kafka.Producer.ReadTimeout.Std()),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin.Std(), cfg.Kafka.Consumer.BackoffMax.Std()),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// kafkaLogPublisher adapts the Kafka producer to the log collector.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p *kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideLogger creates the application logger. When a logs topic is
// configured, repeated error logs are aggregated and shipped to Kafka.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	logCfg := &applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	if logCfg.Format == "" {
		logCfg.Format = "console"
	}
	if logCfg.Output == "" {
		logCfg.Output = "stdout"
	}

	l, err := applogger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if cfg.Kafka.LogsTopic != "" && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      &kafkaLogPublisher{producer: producer},
		})
	}

	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideIntakeStore creates the ClickHouse intake store.
func ProvideIntakeStore(ch *pkgch.Client, l *applogger.Logger) domrepo.IntakeStore {
	s := internalrepo.NewCHIntakeStore(ch)
	s.SetLogger(l)
	return s
}

// ProvideClearingStore creates the ClickHouse clearing store.
func ProvideClearingStore(ch *pkgch.Client, l *applogger.Logger) domrepo.ClearingStore {
	s := internalrepo.NewCHClearingStore(ch)
	s.SetLogger(l)
	return s
}

// ProvideSettlementStore creates the ClickHouse settlement store.
func ProvideSettlementStore(ch *pkgch.Client, l *applogger.Logger) domrepo.SettlementStore {
	s := internalrepo.NewCHSettlementStore(ch)
	s.SetLogger(l)
	return s
}

// ProvideRecordWriter creates the ClickHouse ingest writer.
func ProvideRecordWriter(ch *pkgch.Client) domrepo.RecordWriter {
	return internalrepo.NewClickHouseRecordWriter(ch.DB())
}

// ProvideAnomalyPublisher creates the Kafka notification publisher.
func ProvideAnomalyPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.AnomalyPublisher {
	return internalrepo.NewKafkaAnomalyPublisher(producer, cfg.Kafka.AnomaliesTopic)
}

// ProvideAggregator creates the stage aggregator.
func ProvideAggregator(
	intake domrepo.IntakeStore,
	clearing domrepo.ClearingStore,
	settlement domrepo.SettlementStore,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.Aggregator {
	return usecase.NewAggregator(intake, clearing, settlement, m, l)
}

// ProvideReconciler creates the reconciliation engine.
func ProvideReconciler(agg *usecase.Aggregator, m domrepo.Metrics, l *applogger.Logger) *usecase.Reconciler {
	return usecase.NewReconciler(agg, m, l)
}

// ProvideAnomalyDetector creates the anomaly detector.
func ProvideAnomalyDetector(
	agg *usecase.Aggregator,
	reconciler *usecase.Reconciler,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.AnomalyDetector {
	return usecase.NewAnomalyDetector(agg, reconciler, m, l)
}

// ProvideSynthesizer creates the synthesis builder.
func ProvideSynthesizer(
	intake domrepo.IntakeStore,
	clearing domrepo.ClearingStore,
	settlement domrepo.SettlementStore,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.Synthesizer {
	return usecase.NewSynthesizer(intake, clearing, settlement, m, l)
}

// ProvidePerformanceCalculator creates the performance report builder.
func ProvidePerformanceCalculator(agg *usecase.Aggregator, l *applogger.Logger) *usecase.PerformanceCalculator {
	return usecase.NewPerformanceCalculator(agg, l)
}

// ProvideDashboardBuilder creates the dashboard card builder.
func ProvideDashboardBuilder(agg *usecase.Aggregator, reconciler *usecase.Reconciler, l *applogger.Logger) *usecase.DashboardBuilder {
	return usecase.NewDashboardBuilder(agg, reconciler, l)
}

// ProvideCache selects the response cache backend. Redis when configured,
// otherwise in-process TTL.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideDashboardHandler creates the HTTP API handler.
func ProvideDashboardHandler(
	l *applogger.Logger,
	reconciler *usecase.Reconciler,
	detector *usecase.AnomalyDetector,
	synthesizer *usecase.Synthesizer,
	performance *usecase.PerformanceCalculator,
	dashboard *usecase.DashboardBuilder,
	writer domrepo.RecordWriter,
	cache icache.BytesCache,
) *api.DashboardEchoHandler {
	return api.NewDashboardEchoHandler(l, reconciler, detector, synthesizer, performance, dashboard, writer, cache)
}

// ProvideRecordIngestHandler registers the handler for the records topic.
func ProvideRecordIngestHandler(cfg *config.Config, writer domrepo.RecordWriter, m domrepo.Metrics) *usecase.RecordIngestHandler {
	return usecase.NewRecordIngestHandler(cfg.Kafka.RecordsTopic, writer, m)
}

// ProvideAnomalyMonitor creates the background anomaly sweeper.
func ProvideAnomalyMonitor(
	detector *usecase.AnomalyDetector,
	publisher domrepo.AnomalyPublisher,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.AnomalyMonitor {
	return usecase.NewAnomalyMonitor(detector, publisher, cfg.Monitor.Interval.Std(), l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.DashboardEchoHandler,
	consumer *pkgkafka.Consumer,
	ingest *usecase.RecordIngestHandler,
	monitor *usecase.AnomalyMonitor,
	publisher domrepo.AnomalyPublisher,
	chClient *pkgch.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.TraceHook{SlowThreshold: time.Second, Log: l})
	}
	return server.New(cfg, l, handler, consumer, ingest, monitor, publisher, chClient)
}
