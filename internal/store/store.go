// Package store provides the durable key-value backing for cached weather
// products. A product is an opaque serialized value under a string key; the
// store upserts by key and never evicts.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by GetByKey when no product exists under the key.
var ErrNotFound = errors.New("weather product not found")

// Product is one stored key-value entry. CreatedAt is set when the key first
// appears and preserved across upserts; UpdatedAt is bumped on every Put.
type Product struct {
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the key-value contract consumed by the observation cache.
// Put has upsert semantics: an existing key keeps its CreatedAt and gets the
// new value and a fresh UpdatedAt; a new key gets both timestamps set to now.
type Store interface {
	GetByKey(ctx context.Context, key string) (Product, error)
	Put(ctx context.Context, product Product) (Product, error)
}
