package cache

import (
	"context"
	"time"
)

// Cache is the caching port used by repositories. Implementations must treat
// a miss as (false, nil) so callers can fall through to the database without
// inspecting errors.
type Cache interface {
	// Get loads the value stored under key into dest.
	// Returns found=false on a miss; dest is untouched in that case.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
