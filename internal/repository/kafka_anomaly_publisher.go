package repository

import (
	"context"
	"time"

	"ReconFlow/internal/domain/models"
	"ReconFlow/internal/domain/repository"
	pkgkafka "ReconFlow/pkg/kafka"
)

// KafkaAnomalyPublisher implements AnomalyPublisher for Kafka. Messages
// are keyed by anomaly code so consumers see per-code ordering.
type KafkaAnomalyPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAnomalyPublisher(producer *pkgkafka.Producer, topic string) repository.AnomalyPublisher {
	return &KafkaAnomalyPublisher{producer: producer, topic: topic}
}

func (p *KafkaAnomalyPublisher) Publish(ctx context.Context, w models.Window, a models.Anomaly) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Code), anomalyPayload(w, a))
}

func (p *KafkaAnomalyPublisher) PublishBatch(ctx context.Context, w models.Window, anomalies []models.Anomaly) error {
	if len(anomalies) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(anomalies))
	for i, a := range anomalies {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(a.Code),
			Value: anomalyPayload(w, a),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAnomalyPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func anomalyPayload(w models.Window, a models.Anomaly) map[string]interface{} {
	return map[string]interface{}{
		"code":               string(a.Code),
		"description":        a.Description,
		"severity":           string(a.Severity),
		"detected_at":        a.DetectedAt.Format(time.RFC3339),
		"recommended_action": a.RecommendedAction,
		"window_start":       w.Start.Format(time.RFC3339),
		"window_end":         w.End.Format(time.RFC3339),
	}
}
