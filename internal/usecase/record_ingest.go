package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	pkgkafka "ReconFlow/pkg/kafka"
)

// Stage tags carried by ingest messages.
const (
	StageIntake     = "intake"
	StageClearing   = "clearing"
	StageSettlement = "settlement"
)

// RecordIngestHandler consumes stage-tagged record events and writes them
// into the stores. Invalid attribute values are rejected at this boundary
// so the engines only ever see the closed enum sets.
type RecordIngestHandler struct {
	topic   string
	writer  domrepo.RecordWriter
	metrics domrepo.Metrics
}

func NewRecordIngestHandler(topic string, writer domrepo.RecordWriter, metrics domrepo.Metrics) *RecordIngestHandler {
	return &RecordIngestHandler{topic: topic, writer: writer, metrics: metrics}
}

func (h *RecordIngestHandler) Topic() string { return h.topic }

// incoming message schema: {stage, record: {...stage-specific fields}}
func (h *RecordIngestHandler) Handle(ctx context.Context, b []byte) error {
	var env struct {
		Stage  string          `json:"stage"`
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		h.metrics.RecordStoreError("ingest_unmarshal")
		return err
	}

	start := time.Now()
	var err error
	switch env.Stage {
	case StageIntake:
		var r models.IntakeRecord
		if err = json.Unmarshal(env.Record, &r); err == nil {
			if err = r.Validate(); err == nil {
				err = h.writer.StoreIntakeBatch(ctx, []*models.IntakeRecord{&r})
			}
		}
	case StageClearing:
		var r models.ClearingRecord
		if err = json.Unmarshal(env.Record, &r); err == nil {
			if err = r.Validate(); err == nil {
				err = h.writer.StoreClearingBatch(ctx, []*models.ClearingRecord{&r})
			}
		}
	case StageSettlement:
		var r models.SettlementRecord
		if err = json.Unmarshal(env.Record, &r); err == nil {
			if err = r.Validate(); err == nil {
				err = h.writer.StoreSettlementBatch(ctx, []*models.SettlementRecord{&r})
			}
		}
	default:
		h.metrics.RecordStoreError("ingest_stage")
		return fmt.Errorf("unknown record stage %q", env.Stage)
	}

	h.metrics.RecordLatency("ingest_store_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordStoreError("ingest_store")
		return err
	}
	h.metrics.RecordRecordsIngested(env.Stage, 1)
	return nil
}

var _ pkgkafka.MessageHandler = (*RecordIngestHandler)(nil)
