// Package store provides the small key-value store the dashboard uses for
// refresh cooldown markers and short-lived response caching. The interface
// is injected so throttling logic can be tested against an in-memory fake.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("key not found in store")
	ErrClosed   = errors.New("store is closed")
)

type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Get(ctx context.Context, key string) (string, error)

	Delete(ctx context.Context, key string) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	RedisAddr string

	RedisPassword string

	RedisDB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL: time.Hour,
	}
}
