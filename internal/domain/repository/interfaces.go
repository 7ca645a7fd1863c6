package repository

import (
	"context"

	"ReconFlow/internal/domain/models"
)

// AnomalyPublisher fans detected anomalies out to the notification broker.
type AnomalyPublisher interface {
	Publish(ctx context.Context, window models.Window, a models.Anomaly) error
	PublishBatch(ctx context.Context, window models.Window, anomalies []models.Anomaly) error
	Close() error
}

// RecordWriter ingests records into the stage stores.
type RecordWriter interface {
	StoreIntakeBatch(ctx context.Context, records []*models.IntakeRecord) error
	StoreClearingBatch(ctx context.Context, records []*models.ClearingRecord) error
	StoreSettlementBatch(ctx context.Context, records []*models.SettlementRecord) error
	Health(ctx context.Context) error
}

// Metrics records operational counters for the engines.
type Metrics interface {
	RecordReconciliation(status string)
	RecordAnomaly(code, severity string)
	RecordStoreError(stage string)
	RecordLatency(op string, seconds float64)
	RecordRecordsIngested(stage string, n int)
}
