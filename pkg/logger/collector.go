package logger

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sort"
	"sync"
	"time"
)

// Publisher ships a batch of aggregated entries to a topic. The Kafka
// producer satisfies this through a thin adapter.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration
	CountThreshold int
	Topic          string
	Publisher      Publisher
}

// AggregatedLogEntry is one deduplicated log line with its repeat count
// over the aggregation window.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector batches repeated log lines and flushes them to the logs
// topic on a timer or when the unique-line count grows too large.
type LogCollector struct {
	cfg     *CollectionConfig
	mu      sync.Mutex
	pending map[uint64]*AggregatedLogEntry
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewLogCollector(cfg *CollectionConfig) *LogCollector {
	ctx, cancel := context.WithCancel(context.Background())
	c := &LogCollector{
		cfg:     cfg,
		pending: make(map[uint64]*AggregatedLogEntry),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go c.flushLoop(ctx)
	return c
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := entryKey(level, message, fields, caller)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.pending[key]; ok {
		e.Count++
		e.LastSeen = now
		return
	}
	c.pending[key] = &AggregatedLogEntry{
		Level:     level,
		Message:   message,
		Fields:    fields,
		Caller:    caller,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	if len(c.pending) >= c.cfg.CountThreshold {
		c.flushLocked()
	}
}

// entryKey hashes the identity of a log line. Field keys are sorted so
// map iteration order cannot split one line into several entries.
func entryKey(level, message string, fields map[string]interface{}, caller string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s\x00%s\x00%s\x00", level, message, caller)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(h, "%s=%v\x00", k, fields[k])
	}
	return h.Sum64()
}

func (c *LogCollector) flushLoop(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.cfg.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
		case <-ctx.Done():
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
			return
		}
	}
}

// flushLocked hands the pending batch to the publisher. Caller holds
// the mutex; publishing happens off the lock.
func (c *LogCollector) flushLocked() {
	if len(c.pending) == 0 {
		return
	}

	batch := make([]AggregatedLogEntry, 0, len(c.pending))
	for _, e := range c.pending {
		batch = append(batch, *e)
	}
	c.pending = make(map[uint64]*AggregatedLogEntry)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.cfg.Publisher.PublishMessage(ctx, c.cfg.Topic, batch); err != nil {
			log.Printf("log collector: flush failed: %v", err)
		}
	}()
}

func (c *LogCollector) Close() {
	c.cancel()
	<-c.done
}
