package kafka

import "time"

// ProducerConfig collects writer settings applied by options.
type ProducerConfig struct {
	Brokers      []string
	RequiredAcks int
	Compression  string
	MaxAttempts  int

	BatchSize    int
	BatchBytes   int
	BatchTimeout time.Duration

	WriteTimeout time.Duration
	ReadTimeout  time.Duration

	Async     bool
	HashByKey bool
}

// ProducerOption configures the producer at construction time.
type ProducerOption func(*ProducerConfig)

func WithBrokers(brokers []string) ProducerOption {
	return func(c *ProducerConfig) { c.Brokers = brokers }
}

func WithCompression(compression string) ProducerOption {
	return func(c *ProducerConfig) { c.Compression = compression }
}

// WithRequiredAcks sets the acknowledgement level; -1 waits for all
// in-sync replicas.
func WithRequiredAcks(acks int) ProducerOption {
	return func(c *ProducerConfig) { c.RequiredAcks = acks }
}

func WithMaxAttempts(n int) ProducerOption {
	return func(c *ProducerConfig) { c.MaxAttempts = n }
}

func WithBatchSize(size int) ProducerOption {
	return func(c *ProducerConfig) { c.BatchSize = size }
}

func WithBatchBytes(bytes int) ProducerOption {
	return func(c *ProducerConfig) { c.BatchBytes = bytes }
}

// WithBatchTimeout bounds how long the writer lingers before flushing a
// partial batch.
func WithBatchTimeout(timeout time.Duration) ProducerOption {
	return func(c *ProducerConfig) { c.BatchTimeout = timeout }
}

func WithTimeouts(write, read time.Duration) ProducerOption {
	return func(c *ProducerConfig) {
		c.WriteTimeout = write
		c.ReadTimeout = read
	}
}

// WithAsync switches to fire-and-forget writes.
func WithAsync(async bool) ProducerOption {
	return func(c *ProducerConfig) { c.Async = async }
}

// WithHashByKey hashes the message key so records sharing a reference
// land on one partition and stay ordered.
func WithHashByKey(hash bool) ProducerOption {
	return func(c *ProducerConfig) { c.HashByKey = hash }
}
