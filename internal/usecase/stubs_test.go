package usecase

import (
	"context"
	"errors"
	"sync"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
)

var errPublishDown = errors.New("broker unavailable")

// In-memory store stubs. Behavior is injected per filter so a single test
// can answer different aggregations with different figures.

type stubIntakeStore struct {
	count func(f domrepo.IntakeFilter) (int64, error)
	sum   func(f domrepo.IntakeFilter) (float64, error)
}

func (s *stubIntakeStore) Count(_ context.Context, _ models.Window, f domrepo.IntakeFilter) (int64, error) {
	if s.count == nil {
		return 0, nil
	}
	return s.count(f)
}

func (s *stubIntakeStore) SumAmount(_ context.Context, _ models.Window, f domrepo.IntakeFilter) (float64, error) {
	if s.sum == nil {
		return 0, nil
	}
	return s.sum(f)
}

type stubClearingStore struct {
	count func(f domrepo.ClearingFilter) (int64, error)
	sum   func(f domrepo.ClearingFilter) (float64, error)
}

func (s *stubClearingStore) Count(_ context.Context, _ models.Window, f domrepo.ClearingFilter) (int64, error) {
	if s.count == nil {
		return 0, nil
	}
	return s.count(f)
}

func (s *stubClearingStore) SumAmount(_ context.Context, _ models.Window, f domrepo.ClearingFilter) (float64, error) {
	if s.sum == nil {
		return 0, nil
	}
	return s.sum(f)
}

type stubSettlementStore struct {
	count func(f domrepo.SettlementFilter) (int64, error)
	sum   func(f domrepo.SettlementFilter) (float64, error)
}

func (s *stubSettlementStore) Count(_ context.Context, _ models.Window, f domrepo.SettlementFilter) (int64, error) {
	if s.count == nil {
		return 0, nil
	}
	return s.count(f)
}

func (s *stubSettlementStore) SumAmount(_ context.Context, _ models.Window, f domrepo.SettlementFilter) (float64, error) {
	if s.sum == nil {
		return 0, nil
	}
	return s.sum(f)
}

// stubMetrics counts recorder calls. Mutex-guarded because the reconciler
// fans aggregations out concurrently.
type stubMetrics struct {
	mu              sync.Mutex
	reconciliations map[string]int
	anomalies       map[string]int
	storeErrors     map[string]int
	ingested        map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{
		reconciliations: map[string]int{},
		anomalies:       map[string]int{},
		storeErrors:     map[string]int{},
		ingested:        map[string]int{},
	}
}

func (m *stubMetrics) RecordReconciliation(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciliations[status]++
}

func (m *stubMetrics) RecordAnomaly(code, severity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anomalies[code]++
}

func (m *stubMetrics) RecordStoreError(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeErrors[stage]++
}

func (m *stubMetrics) RecordLatency(string, float64) {}

func (m *stubMetrics) RecordRecordsIngested(stage string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested[stage] += n
}

// stubPublisher records published batches and can fail a number of calls.
type stubPublisher struct {
	batches  [][]models.Anomaly
	failures int
}

func (p *stubPublisher) Publish(ctx context.Context, w models.Window, a models.Anomaly) error {
	return p.PublishBatch(ctx, w, []models.Anomaly{a})
}

func (p *stubPublisher) PublishBatch(_ context.Context, _ models.Window, anomalies []models.Anomaly) error {
	if p.failures > 0 {
		p.failures--
		return errPublishDown
	}
	p.batches = append(p.batches, anomalies)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

// stubWriter records stored batches.
type stubWriter struct {
	intake     []*models.IntakeRecord
	clearing   []*models.ClearingRecord
	settlement []*models.SettlementRecord
	err        error
}

func (w *stubWriter) StoreIntakeBatch(_ context.Context, records []*models.IntakeRecord) error {
	if w.err != nil {
		return w.err
	}
	w.intake = append(w.intake, records...)
	return nil
}

func (w *stubWriter) StoreClearingBatch(_ context.Context, records []*models.ClearingRecord) error {
	if w.err != nil {
		return w.err
	}
	w.clearing = append(w.clearing, records...)
	return nil
}

func (w *stubWriter) StoreSettlementBatch(_ context.Context, records []*models.SettlementRecord) error {
	if w.err != nil {
		return w.err
	}
	w.settlement = append(w.settlement, records...)
	return nil
}

func (w *stubWriter) Health(context.Context) error { return w.err }
