package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get reports whether the key was present and, if so, decodes it
	// into value.
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
