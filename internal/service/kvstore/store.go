package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Store is the key-value backend behind the session archive, the live
// elapsed timer and the AI rate limiter. Values are stored as JSON.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get decodes the value into dest. It returns an error wrapping ErrNotFound
	// when the key is missing or expired.
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// CheckRateLimit increments the counter at key and reports whether it is
	// still within limit. Every call extends the window.
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Health(ctx context.Context) error
	Close() error
}
