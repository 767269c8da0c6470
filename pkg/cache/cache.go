package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is the generic store behind the query cache. Implementations must
// treat an expired entry like an absent one.
type Cache interface {
	// Set stores a value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get loads the value under key and unmarshals it into target.
	Get(ctx context.Context, key string, target interface{}) error
	// Delete removes the key.
	Delete(ctx context.Context, key string) error
}
