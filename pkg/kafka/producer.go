package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// Message pairs an optional partitioning key with a payload. Values
// that are not []byte or string are JSON-encoded on publish.
type Message struct {
	Key   []byte
	Value interface{}
}

// Producer wraps a kafka-go writer with payload encoding and metrics.
type Producer struct {
	writer *kafka.Writer
	comp   string
}

func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := &ProducerConfig{
		RequiredAcks: -1,
		Compression:  "gzip",
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		BatchSize:    100,
		BatchBytes:   1048576,
		BatchTimeout: time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	var balancer kafka.Balancer = &kafka.LeastBytes{}
	if cfg.HashByKey {
		balancer = &kafka.Hash{}
	}

	registerProducerMetrics()
	return &Producer{
		comp: cfg.Compression,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     balancer,
			RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
			Compression:  parseCompression(cfg.Compression),
			MaxAttempts:  cfg.MaxAttempts,
			WriteTimeout: cfg.WriteTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			BatchSize:    cfg.BatchSize,
			BatchBytes:   int64(cfg.BatchBytes),
			BatchTimeout: cfg.BatchTimeout,
			Async:        cfg.Async,
		},
	}, nil
}

func encodeValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal value: %w", err)
		}
		return b, nil
	}
}

// Publish sends one message to topic.
func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	return p.PublishBatch(ctx, topic, []Message{{Key: key, Value: value}})
}

// PublishBatch sends messages to topic in a single write.
func (p *Producer) PublishBatch(ctx context.Context, topic string, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	start := time.Now()
	msgs := make([]kafka.Message, 0, len(messages))
	var totalBytes int64
	for _, m := range messages {
		v, err := encodeValue(m.Value)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: v,
			Time:  start,
		})
		totalBytes += int64(len(v))
	}

	err := p.writer.WriteMessages(ctx, msgs...)
	observeProducer(topic, p.comp, totalBytes, len(messages), time.Since(start), err)
	return err
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func parseCompression(s string) kafka.Compression {
	switch s {
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Gzip
	}
}

var (
	producerMetricsOnce sync.Once
	producerMsgs        *prometheus.CounterVec
	producerErrs        *prometheus.CounterVec
	producerBytes       *prometheus.CounterVec
	producerLatency     *prometheus.HistogramVec
)

func registerProducerMetrics() {
	producerMetricsOnce.Do(func() {
		producerMsgs = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconflow_kafka_producer_messages_total",
				Help: "Total messages published to Kafka",
			},
			[]string{"topic", "compression", "result"},
		)
		producerErrs = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconflow_kafka_producer_errors_total",
				Help: "Total producer errors",
			},
			[]string{"topic"},
		)
		producerBytes = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconflow_kafka_producer_bytes_total",
				Help: "Total payload bytes published",
			},
			[]string{"topic", "compression"},
		)
		producerLatency = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reconflow_kafka_producer_publish_seconds",
				Help:    "Publish latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"topic"},
		)
	})
}

func observeProducer(topic, comp string, bytes int64, count int, dur time.Duration, err error) {
	if producerMsgs == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		producerErrs.WithLabelValues(topic).Inc()
	}
	producerMsgs.WithLabelValues(topic, comp, result).Add(float64(count))
	producerBytes.WithLabelValues(topic, comp).Add(float64(bytes))
	producerLatency.WithLabelValues(topic).Observe(dur.Seconds())
}
