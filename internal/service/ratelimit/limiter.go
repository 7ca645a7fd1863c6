package ratelimit

import (
	"sync"
	"time"
)

// idleEvictAfter is how long an untouched client bucket survives before
// the next Allow call may drop it.
const idleEvictAfter = 10 * time.Minute

type bucket struct {
	fill       float64
	burst      float64
	perSecond  float64
	lastRefill time.Time
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.fill += elapsed * b.perSecond
	if b.fill > b.burst {
		b.fill = b.burst
	}
	b.lastRefill = now
}

// Limiter holds one token bucket per client identifier. Dashboard
// aggregation fan-outs are expensive, so each client gets a small burst
// and a steady refill instead of an unbounded request rate.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func New() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes one token for the given client and reports whether the
// request may proceed. burst is the bucket capacity, perSecond the
// refill rate. Parameters of the first call for a client fix its bucket.
func (l *Limiter) Allow(client string, burst, perSecond float64) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[client]
	if !ok {
		if len(l.buckets) > 1024 {
			l.evictIdle(now)
		}
		b = &bucket{fill: burst, burst: burst, perSecond: perSecond, lastRefill: now}
		l.buckets[client] = b
	}

	b.refill(now)
	if b.fill < 1 {
		return false
	}
	b.fill--
	return true
}

// evictIdle drops buckets that have not been refilled recently. Caller
// holds the mutex.
func (l *Limiter) evictIdle(now time.Time) {
	for client, b := range l.buckets {
		if now.Sub(b.lastRefill) > idleEvictAfter {
			delete(l.buckets, client)
		}
	}
}
