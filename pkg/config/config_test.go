package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
environment: test
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 15s
clickhouse:
  host: localhost
  port: 9000
  database: reconflow
  dial_timeout: 5s
kafka:
  brokers:
    - localhost:9092
  records_topic: reconflow.records
  anomalies_topic: reconflow.anomalies
  producer:
    linger: 100ms
monitor:
  enabled: true
  interval: 5m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout.Std())
	assert.Equal(t, 100*time.Millisecond, cfg.Kafka.Producer.Linger.Std())
	assert.Equal(t, 5*time.Minute, cfg.Monitor.Interval.Std())
	assert.True(t, cfg.Monitor.Enabled)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\nserver:\n  read_timeout: tomorrow\n"))
	assert.Error(t, err)
}

func TestValidateRequiredFields(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clickhouse.host")
}

func TestValidateRedisAddr(t *testing.T) {
	body := sampleYAML + `
cache:
  redis:
    enabled: true
`
	_, err := Load(writeConfig(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.redis.addr")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")

	cfg, err := LoadWithEnv(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "ch.internal", cfg.ClickHouse.Host)
}
