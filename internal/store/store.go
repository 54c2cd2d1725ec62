package store

import (
	"context"
	"errors"
)

// ErrNotFound reports an absent key.
var ErrNotFound = errors.New("key not found")

// KV is the persistence substrate: a flat string-to-string mapping, enumerable by
// key. Writes to a single key are atomic; nothing is guaranteed across keys.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
