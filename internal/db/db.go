// Package db defines the local key-value storage used for the session and
// the usage cache. Drivers live in the sqlite, redis and memory subpackages.
package db

import "context"

// Store is implemented by every driver.
type Store interface {
	KVStore
	Ping(ctx context.Context) error
	Close()
}

// KVStore stores opaque values. Get returns ErrKeyNotFound for missing keys;
// Del of a missing key is not an error.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}
