package kafka

import (
	"context"
	"fmt"
	"time"

	applogger "ReconFlow/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook wraps message handling. BeforeHandle may rewrite the
// context, message, and payload; a non-nil error skips the handler and
// routes the message through error processing (OnError, DLQ, commit).
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
	OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook is the consumer's default hook.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return ctx, km, data, nil
}

func (NoopHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

func (NoopHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

// HookError classifies a hook failure by code.
type HookError struct {
	Code string
	Err  error
}

func (e *HookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *HookError) Unwrap() error { return e.Err }

type ctxKey string

const (
	ctxStartTime ctxKey = "kafka_hook_start_time"
	ctxTraceID   ctxKey = "kafka_hook_trace_id"
)

// TraceID returns the correlation id a TraceHook stored in the context,
// or "" when none was present on the message.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(ctxTraceID).(string)
	return id
}

// TraceHook carries the producer's trace_id header into the handler
// context and logs handling that exceeds SlowThreshold. Log may be nil.
type TraceHook struct {
	SlowThreshold time.Duration
	Log           *applogger.Logger
}

func (h TraceHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	ctx = context.WithValue(ctx, ctxStartTime, time.Now())
	for _, hdr := range km.Headers {
		if hdr.Key == "trace_id" && len(hdr.Value) > 0 {
			ctx = context.WithValue(ctx, ctxTraceID, string(hdr.Value))
			break
		}
	}
	return ctx, km, data, nil
}

func (h TraceHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	start, ok := ctx.Value(ctxStartTime).(time.Time)
	if !ok || h.Log == nil || h.SlowThreshold <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > h.SlowThreshold {
		h.Log.Warn("kafka: slow handling", append(h.fields(ctx, topic, km), applogger.Duration("took", elapsed))...)
	}
}

func (h TraceHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.Log == nil {
		return
	}
	h.Log.Error("kafka: handling failed", append(h.fields(ctx, topic, km), applogger.Error(err))...)
}

func (h TraceHook) fields(ctx context.Context, topic string, km kafka.Message) []applogger.Field {
	return []applogger.Field{
		applogger.String("topic", topic),
		applogger.Int("partition", km.Partition),
		applogger.Int64("offset", km.Offset),
		applogger.String("trace", TraceID(ctx)),
	}
}
