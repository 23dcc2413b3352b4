package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore          = errors.New("cache: remote store is nil")
	ErrNilMeter          = errors.New("cache: meter is nil")
	ErrInvalidKey        = errors.New("cache: key is invalid")
	ErrKeyTooLong        = errors.New("cache: key exceeds max length")
	ErrRemoteUnavailable = errors.New("cache: remote store unavailable")
)

// RemoteStore is the shared key-value tier consulted on a local miss.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Get must honor cancellation/deadlines.
// - Errors: a key that does not exist is ("", false, nil), never an error.
type RemoteStore interface {
	// Get fetches the value stored under key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
}

// RemoteStoreFunc adapts an ordinary function to RemoteStore.
type RemoteStoreFunc func(ctx context.Context, key string) (string, bool, error)

// Get calls f(ctx, key).
func (f RemoteStoreFunc) Get(ctx context.Context, key string) (string, bool, error) {
	return f(ctx, key)
}

// ValidateKey checks if a key is valid for lookup.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
