package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "10s" style YAML values, which yaml.v3 does not decode
// into time.Duration on its own.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int      `yaml:"port"`
		ReadTimeout     Duration `yaml:"read_timeout"`
		WriteTimeout    Duration `yaml:"write_timeout"`
		ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Host             string   `yaml:"host"`
		Port             int      `yaml:"port"`
		Database         string   `yaml:"database"`
		User             string   `yaml:"user"`
		Password         string   `yaml:"password"`
		UseHTTP          bool     `yaml:"use_http"`
		AsyncInsert      bool     `yaml:"async_insert"`
		WaitForAsync     bool     `yaml:"wait_for_async_insert"`
		DialTimeout      Duration `yaml:"dial_timeout"`
		ReadTimeout      Duration `yaml:"read_timeout"`
		WriteTimeout     Duration `yaml:"write_timeout"`
		MaxExecutionTime Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers        []string `yaml:"brokers"`
		RecordsTopic   string   `yaml:"records_topic"`
		AnomaliesTopic string   `yaml:"anomalies_topic"`
		LogsTopic      string   `yaml:"logs_topic"`
		RequiredAcks   int      `yaml:"required_acks"`
		Compression    string   `yaml:"compression"`
		Producer       struct {
			MaxAttempts  int      `yaml:"max_attempts"`
			Linger       Duration `yaml:"linger"`
			BatchBytes   int      `yaml:"batch_bytes"`
			BatchSize    int      `yaml:"batch_size"`
			WriteTimeout Duration `yaml:"write_timeout"`
			ReadTimeout  Duration `yaml:"read_timeout"`
			Async        bool     `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string   `yaml:"group_id"`
			Workers    int      `yaml:"workers"`
			BufferSize int      `yaml:"buffer_size"`
			RetryMax   int      `yaml:"retry_max"`
			BackoffMin Duration `yaml:"backoff_min"`
			BackoffMax Duration `yaml:"backoff_max"`
			DLQTopic   string   `yaml:"dlq_topic"`
			MinBytes   int      `yaml:"min_bytes"`
			MaxBytes   int      `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Monitor struct {
		Enabled  bool     `yaml:"enabled"`
		Interval Duration `yaml:"interval"`
	} `yaml:"monitor"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("RECORDS_TOPIC"); v != "" {
		c.Kafka.RecordsTopic = v
	}
	if v := os.Getenv("ANOMALIES_TOPIC"); v != "" {
		c.Kafka.AnomaliesTopic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.ClickHouse.Database == "" {
		return fmt.Errorf("clickhouse.database is required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty")
	}
	if c.Kafka.RecordsTopic == "" {
		return fmt.Errorf("kafka.records_topic is required")
	}
	if c.Kafka.AnomaliesTopic == "" {
		return fmt.Errorf("kafka.anomalies_topic is required")
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when redis is enabled")
	}
	return nil
}
