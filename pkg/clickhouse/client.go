package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

// Client wraps the database/sql pool for the record tables.
type Client struct {
	db  *sql.DB
	cfg *ClientConfig
}

// NewClient opens the pool and verifies connectivity before returning.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}

	db, err := sql.Open("clickhouse", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}

	return &Client{db: db, cfg: cfg}, nil
}

// DB exposes the underlying pool for query builders and batch writers.
func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// InitSchema runs each DDL statement in order. Statements are expected
// to be idempotent (CREATE ... IF NOT EXISTS) so startup can repeat.
func (c *Client) InitSchema(ctx context.Context, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (cfg *ClientConfig) dsn() string {
	u := url.URL{
		Scheme: "clickhouse",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	if cfg.UseHTTP {
		u.Scheme = "clickhouse+http"
	}

	q := url.Values{}
	if cfg.DialTimeout > 0 {
		q.Set("dial_timeout", cfg.DialTimeout.String())
	}
	if cfg.ReadTimeout > 0 {
		q.Set("read_timeout", cfg.ReadTimeout.String())
	}
	// write_timeout is rejected as a server setting by some versions,
	// so it stays a client-side pool setting only.
	if cfg.MaxExecTime > 0 {
		q.Set("max_execution_time", strconv.Itoa(int(cfg.MaxExecTime/time.Second)))
	}
	if cfg.AsyncInsert {
		q.Set("async_insert", "1")
		if cfg.WaitForAsync {
			q.Set("wait_for_async_insert", "1")
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
