package cache

import "time"

// BytesCache stores serialized API responses keyed by request window.
// Implementations must treat a missing key as (nil, false, nil), not as
// an error, so callers can fall through to the engines.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
