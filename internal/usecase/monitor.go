package usecase

import (
	"context"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	applogger "ReconFlow/pkg/logger"
)

// AnomalyMonitor periodically runs the session-level detector over the
// current-day window and fans new anomalies out to the notification
// broker. An anomaly code already published in the previous sweep is not
// re-published until it clears.
type AnomalyMonitor struct {
	detector  *AnomalyDetector
	publisher domrepo.AnomalyPublisher
	interval  time.Duration
	l         *applogger.Logger

	published map[models.AnomalyCode]bool
}

func NewAnomalyMonitor(detector *AnomalyDetector, publisher domrepo.AnomalyPublisher, interval time.Duration, l *applogger.Logger) *AnomalyMonitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &AnomalyMonitor{
		detector:  detector,
		publisher: publisher,
		interval:  interval,
		l:         l,
		published: make(map[models.AnomalyCode]bool),
	}
}

// Start blocks running sweeps until ctx is cancelled.
func (m *AnomalyMonitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *AnomalyMonitor) sweep(ctx context.Context) {
	w := models.Today()
	anomalies := m.detector.DetectSession(ctx, w)

	current := make(map[models.AnomalyCode]bool, len(anomalies))
	fresh := make([]models.Anomaly, 0, len(anomalies))
	for _, a := range anomalies {
		if current[a.Code] {
			continue // one notification per code per sweep
		}
		current[a.Code] = true
		if !m.published[a.Code] {
			fresh = append(fresh, a)
		}
	}
	m.published = current

	if len(fresh) == 0 {
		return
	}
	if err := m.publisher.PublishBatch(ctx, w, fresh); err != nil {
		if m.l != nil {
			m.l.Error("anomaly publish failed", applogger.Error(err))
		}
		// retry next sweep
		for _, a := range fresh {
			delete(m.published, a.Code)
		}
		return
	}
	if m.l != nil {
		m.l.Info("anomalies published",
			applogger.Int("count", len(fresh)),
			applogger.String("window", w.Key()),
		)
	}
}
