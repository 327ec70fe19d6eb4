// Package cache provides the response cache used by the analysis API.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching serialized analysis results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Key generates a namespaced cache key from an endpoint path and query.
func Key(path string) string {
	hash := sha256.Sum256([]byte(path))
	return "twseo:v1:" + hex.EncodeToString(hash[:])
}
