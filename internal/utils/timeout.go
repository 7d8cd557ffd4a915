package utils

import (
	"context"
	"time"
)

const DefaultStoreTimeout = 5 * time.Second

// WithStoreTimeout bounds a document store call so a hung store cannot
// hang the calling flow indefinitely.
func WithStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultStoreTimeout)
}
