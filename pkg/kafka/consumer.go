package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler consumes messages from one topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	WorkerCount int
	BufferSize  int
	RetryMax    int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
	DLQTopic    string
	MinBytes    int
	MaxBytes    int
}

// ConsumerOption configures the consumer at construction time.
type ConsumerOption func(*ConsumerConfig)

func WithConsumerBrokers(brokers []string) ConsumerOption {
	return func(c *ConsumerConfig) { c.Brokers = brokers }
}

func WithConsumerGroupID(groupID string) ConsumerOption {
	return func(c *ConsumerConfig) { c.GroupID = groupID }
}

func WithConsumerWorkers(count int) ConsumerOption {
	return func(c *ConsumerConfig) { c.WorkerCount = count }
}

func WithConsumerBufferSize(n int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if n > 0 {
			c.BufferSize = n
		}
	}
}

// WithConsumerRetry bounds handler retries and the backoff range
// between attempts.
func WithConsumerRetry(max int, backoffMin, backoffMax time.Duration) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.RetryMax = max
		c.BackoffMin = backoffMin
		c.BackoffMax = backoffMax
	}
}

// WithConsumerDLQ routes messages that exhaust their retries to topic.
func WithConsumerDLQ(topic string) ConsumerOption {
	return func(c *ConsumerConfig) { c.DLQTopic = topic }
}

func WithConsumerFetch(minBytes, maxBytes int) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.MinBytes = minBytes
		c.MaxBytes = maxBytes
	}
}

type inbound struct {
	topic string
	data  []byte
	km    kafka.Message
}

// Consumer reads registered topics into a bounded queue drained by a
// worker pool. Offsets commit after successful handling, or after a
// DLQ write so a poison message cannot wedge the partition.
type Consumer struct {
	cfg      *ConsumerConfig
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	queue    chan *inbound
	dlq      *kafka.Writer
	hook     ConsumerHook

	partMu    sync.Mutex
	partLocks map[string]map[int]*sync.Mutex

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "default",
		WorkerCount: 1,
		BufferSize:  10,
		RetryMax:    3,
		BackoffMin:  50 * time.Millisecond,
		BackoffMax:  2 * time.Second,
		MinBytes:    10e3,
		MaxBytes:    10e6,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	c := &Consumer{
		cfg:       cfg,
		readers:   make(map[string]*kafka.Reader),
		handlers:  make(map[string]MessageHandler),
		queue:     make(chan *inbound, cfg.BufferSize),
		hook:      NoopHook{},
		partLocks: make(map[string]map[int]*sync.Mutex),
		stopChan:  make(chan struct{}),
	}
	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}}
	}

	registerConsumerMetrics()
	return c, nil
}

// WithConsumerHook replaces the lifecycle hook.
func (c *Consumer) WithConsumerHook(h ConsumerHook) {
	if h != nil {
		c.hook = h
	}
}

// RegisterHandler binds handler to its topic. Call before Start.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		log.Printf("warn: handler already registered for topic %s", topic)
		return
	}
	c.handlers[topic] = handler
}

// Start spawns one reader goroutine per registered topic plus the
// worker pool, then returns.
func (c *Consumer) Start() error {
	for topic := range c.handlers {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		})
		log.Printf("kafka consumer: registered topic=%s", topic)
	}

	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.wg.Add(1)
		go c.worker()
	}

	for topic, reader := range c.readers {
		c.wg.Add(1)
		go c.readLoop(topic, reader)
	}

	log.Printf("kafka consumer: started workers=%d topics=%d", c.cfg.WorkerCount, len(c.readers))
	return nil
}

// Stop drains the pipeline and closes readers. The context bounds how
// long to wait for in-flight handling.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error
	c.stopOnce.Do(func() {
		close(c.stopChan)
		close(c.queue)

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-ctx.Done():
			stopErr = fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
		case <-done:
		}

		for topic, reader := range c.readers {
			if err := reader.Close(); err != nil {
				log.Printf("error closing reader for topic %s: %v", topic, err)
			}
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				log.Printf("error closing dlq writer: %v", err)
			}
		}
	})
	return stopErr
}

func (c *Consumer) readLoop(topic string, reader *kafka.Reader) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		msg, err := reader.ReadMessage(ctx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				log.Printf("error reading message from topic %s: %v", topic, err)
			}
			continue
		}

		if !c.enqueue(&inbound{topic: topic, data: msg.Value, km: msg}) {
			return
		}
	}
}

// enqueue blocks until the message is queued or the consumer stops.
// Instead of dropping on a full queue it backs off, slowing the reader
// down to the workers' pace.
func (c *Consumer) enqueue(m *inbound) bool {
	for {
		select {
		case c.queue <- m:
			if consumerQueueDepth != nil {
				consumerQueueDepth.WithLabelValues(m.topic).Set(float64(len(c.queue)))
				consumerQueueFullness.WithLabelValues(m.topic).Set(float64(len(c.queue)) / float64(cap(c.queue)))
			}
			return true
		case <-c.stopChan:
			return false
		default:
			fullness := float64(len(c.queue)) / float64(cap(c.queue))
			if consumerQueueFullness != nil {
				consumerQueueFullness.WithLabelValues(m.topic).Set(fullness)
			}
			if fullness > 0.8 {
				time.Sleep(10 * time.Millisecond)
			} else {
				runtime.Gosched()
			}
		}
	}
}

func (c *Consumer) worker() {
	defer c.wg.Done()

	for m := range c.queue {
		handler, ok := c.handlers[m.topic]
		if !ok {
			continue
		}
		c.process(handler, m)
	}
}

// process runs one message through hooks, retries, DLQ, and commit.
// Panics are contained so a bad payload cannot kill the worker.
func (c *Consumer) process(handler MessageHandler, m *inbound) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic in message handler for topic %s: %v", m.topic, r)
		}
	}()

	// One in-flight message per (topic, partition) keeps per-partition
	// ordering even with a larger worker pool.
	pl := c.partitionLock(m.topic, m.km.Partition)
	pl.Lock()
	defer pl.Unlock()

	err := c.handleWithRetry(handler, m)
	if err != nil {
		c.hook.OnError(context.Background(), m.topic, m.km, m.data, err)
		log.Printf("error handling message from topic %s: %v", m.topic, err)
		if c.dlq != nil {
			c.writeDLQ(m)
		}
	}

	// Commit on success, or after the DLQ took the message.
	if err == nil || c.dlq != nil {
		if reader := c.readers[m.topic]; reader != nil {
			_ = c.commitWithRetry(reader, m.km, 3)
		}
	}
	if consumerHandleLatency != nil {
		consumerHandleLatency.WithLabelValues(m.topic).Observe(time.Since(start).Seconds())
	}
}

func (c *Consumer) handleWithRetry(handler MessageHandler, m *inbound) error {
	var err error
	for attempt := 1; ; attempt++ {
		hctx, hmsg, hdata, berr := c.hook.BeforeHandle(context.Background(), m.topic, m.km, m.data)
		if berr != nil {
			return berr
		}

		err = handler.Handle(hctx, hdata)
		c.hook.AfterHandle(hctx, m.topic, hmsg, hdata, err)
		if err == nil || attempt > c.cfg.RetryMax {
			return err
		}

		c.hook.OnError(hctx, m.topic, hmsg, hdata, err)
		select {
		case <-time.After(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)):
		case <-c.stopChan:
			return err
		}
	}
}

func (c *Consumer) writeDLQ(m *inbound) {
	dlqMsg := kafka.Message{
		Topic:   c.cfg.DLQTopic,
		Value:   m.data,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "source_topic", Value: []byte(m.topic)}},
	}
	if err := c.dlq.WriteMessages(context.Background(), dlqMsg); err != nil {
		log.Printf("error writing to DLQ topic %s: %v", c.cfg.DLQTopic, err)
	}
}

func (c *Consumer) commitWithRetry(reader *kafka.Reader, km kafka.Message, max int) error {
	if max <= 0 {
		max = 1
	}
	var err error
	for attempt := 1; attempt <= max; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = reader.CommitMessages(ctx, km)
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(backoffWithJitter(50*time.Millisecond, 500*time.Millisecond, attempt))
	}
	log.Printf("error committing message after %d attempts: %v", max, err)
	return err
}

func (c *Consumer) partitionLock(topic string, partition int) *sync.Mutex {
	c.partMu.Lock()
	defer c.partMu.Unlock()

	byPart, ok := c.partLocks[topic]
	if !ok {
		byPart = make(map[int]*sync.Mutex)
		c.partLocks[topic] = byPart
	}
	l, ok := byPart[partition]
	if !ok {
		l = &sync.Mutex{}
		byPart[partition] = l
	}
	return l
}

// backoffWithJitter grows exponentially from min toward max, minus up
// to 50% random jitter so retrying workers do not thunder together.
func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	exp := min * time.Duration(1<<uint(attempt-1))
	if exp > max {
		exp = max
	}
	return exp - time.Duration(rand.Int63n(int64(exp)/2))
}

var (
	consumerMetricsOnce   sync.Once
	consumerQueueDepth    *prometheus.GaugeVec
	consumerQueueFullness *prometheus.GaugeVec
	consumerHandleLatency *prometheus.HistogramVec
	consumerRegisterer    prometheus.Registerer
)

// SetConsumerMetricsRegisterer overrides the default registry, useful
// in tests that build multiple consumers.
func SetConsumerMetricsRegisterer(reg prometheus.Registerer) { consumerRegisterer = reg }

func registerConsumerMetrics() {
	consumerMetricsOnce.Do(func() {
		depthOpts := prometheus.GaugeOpts{Name: "reconflow_kafka_consumer_queue_depth", Help: "Number of messages waiting in consumer queue"}
		fullOpts := prometheus.GaugeOpts{Name: "reconflow_kafka_consumer_queue_fullness", Help: "Queue utilization ratio (len/cap)"}
		latOpts := prometheus.HistogramOpts{Name: "reconflow_kafka_consumer_handle_seconds", Help: "Handling time per message"}

		if consumerRegisterer != nil {
			consumerQueueDepth = prometheus.NewGaugeVec(depthOpts, []string{"topic"})
			consumerQueueFullness = prometheus.NewGaugeVec(fullOpts, []string{"topic"})
			consumerHandleLatency = prometheus.NewHistogramVec(latOpts, []string{"topic"})
			consumerRegisterer.MustRegister(consumerQueueDepth, consumerQueueFullness, consumerHandleLatency)
			return
		}
		consumerQueueDepth = promauto.NewGaugeVec(depthOpts, []string{"topic"})
		consumerQueueFullness = promauto.NewGaugeVec(fullOpts, []string{"topic"})
		consumerHandleLatency = promauto.NewHistogramVec(latOpts, []string{"topic"})
	})
}
