// Package kv holds the local key-value stores the repositories persist to.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

// Store is a flat string-keyed blob store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key owned by the store.
	Clear(ctx context.Context) error
}
