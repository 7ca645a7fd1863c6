package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or a file path
	TimeFormat string
}

// Logger wraps zerolog with typed fields and an optional collector that
// ships repeated error lines to a Kafka topic.
type Logger struct {
	zl        zerolog.Logger
	collector *LogCollector
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		out = file
	}

	tf := cfg.TimeFormat
	if tf == "" {
		tf = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = tf

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: tf}
	}

	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()

	return &Logger{zl: zl}, nil
}

func (l *Logger) Debug(msg string, fields ...Field) {
	ev := l.zl.Debug()
	for _, f := range fields {
		f.apply(ev)
	}
	ev.Msg(msg)
}

func (l *Logger) Info(msg string, fields ...Field) {
	ev := l.zl.Info()
	for _, f := range fields {
		f.apply(ev)
	}
	ev.Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	ev := l.zl.Warn()
	for _, f := range fields {
		f.apply(ev)
	}
	ev.Msg(msg)
}

func (l *Logger) Error(msg string, fields ...Field) {
	ev := l.zl.Error()
	for _, f := range fields {
		f.apply(ev)
	}
	ev.Msg(msg)

	l.collect("error", msg, fields)
}

// collect forwards the line to the aggregating collector, if attached.
func (l *Logger) collect(level, msg string, fields []Field) {
	if l.collector == nil {
		return
	}

	// Caller(2): collect -> Error -> call site.
	caller := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		if i := strings.LastIndex(file, "ReconFlow"); i >= 0 {
			file = file[i:]
		}
		caller = fmt.Sprintf("%s:%d", file, line)
	}

	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.value
	}
	l.collector.AddLog(level, msg, m, caller)
}

func (l *Logger) AddCollector(cfg *CollectionConfig) {
	if l.collector != nil {
		l.collector.Close()
	}
	l.collector = NewLogCollector(cfg)
}

func (l *Logger) RemoveCollector() {
	if l.collector != nil {
		l.collector.Close()
		l.collector = nil
	}
}

// Field is one structured key/value pair.
type Field struct {
	Key   string
	value interface{}
	apply func(*zerolog.Event)
}

func String(key, value string) Field {
	return Field{Key: key, value: value, apply: func(e *zerolog.Event) { e.Str(key, value) }}
}

func Strings(key string, values []string) Field {
	return String(key, strings.Join(values, ", "))
}

func Int(key string, value int) Field {
	return Field{Key: key, value: value, apply: func(e *zerolog.Event) { e.Int(key, value) }}
}

func Int32(key string, value int32) Field {
	return Int(key, int(value))
}

func Int64(key string, value int64) Field {
	return Field{Key: key, value: value, apply: func(e *zerolog.Event) { e.Int64(key, value) }}
}

func Uint(key string, value uint) Field {
	return Int(key, int(value))
}

func Uint64(key string, value uint64) Field {
	return Int64(key, int64(value))
}

func Bool(key string, value bool) Field {
	return Field{Key: key, value: value, apply: func(e *zerolog.Event) { e.Bool(key, value) }}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, value: value, apply: func(e *zerolog.Event) { e.Float64(key, value) }}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, value: value.String(), apply: func(e *zerolog.Event) { e.Dur(key, value) }}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, value: value, apply: func(e *zerolog.Event) { e.Interface(key, value) }}
}

func Error(err error) Field {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Field{Key: "error", value: msg, apply: func(e *zerolog.Event) { e.Err(err) }}
}
