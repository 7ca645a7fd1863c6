package clickhouse

import "time"

// ClientConfig collects the connection settings applied by options.
type ClientConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxExecTime  time.Duration

	UseHTTP      bool
	AsyncInsert  bool
	WaitForAsync bool
}

func defaultConfig() *ClientConfig {
	return &ClientConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
	}
}

// ClientOption configures the client at construction time.
type ClientOption func(*ClientConfig)

func WithHost(host string) ClientOption {
	return func(c *ClientConfig) { c.Host = host }
}

func WithPort(port int) ClientOption {
	return func(c *ClientConfig) { c.Port = port }
}

func WithDatabase(database string) ClientOption {
	return func(c *ClientConfig) { c.Database = database }
}

func WithCredentials(user, password string) ClientOption {
	return func(c *ClientConfig) {
		c.User = user
		c.Password = password
	}
}

func WithMaxConnections(maxOpen, maxIdle int) ClientOption {
	return func(c *ClientConfig) {
		c.MaxOpenConns = maxOpen
		c.MaxIdleConns = maxIdle
	}
}

func WithTimeouts(dial, read, write time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.DialTimeout = dial
		c.ReadTimeout = read
		c.WriteTimeout = write
	}
}

// WithHTTP switches from the native protocol to HTTP transport.
func WithHTTP(useHTTP bool) ClientOption {
	return func(c *ClientConfig) { c.UseHTTP = useHTTP }
}

// WithAsyncInsert enables server-side async inserts; wait controls
// whether each insert blocks until the server flushes the buffer.
func WithAsyncInsert(enabled, wait bool) ClientOption {
	return func(c *ClientConfig) {
		c.AsyncInsert = enabled
		c.WaitForAsync = wait
	}
}

func WithMaxExecutionTime(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.MaxExecTime = d }
}
