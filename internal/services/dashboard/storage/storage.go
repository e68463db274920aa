// Package storage defines the per-scope key-value persistence used for
// browser-scoped dashboard state.
package storage

import (
	"context"
	"errors"
	"strings"
)

// Keys persisted per scope.
const (
	KeyUser     = "safedrive_user"
	KeySettings = "safedrive_settings"
	KeyProfile  = "safedrive_profile"
)

var (
	// ErrNotFound indicates no value is stored under the key.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidKey indicates an empty scope or key.
	ErrInvalidKey = errors.New("scope and key are required")
)

// Store persists opaque values keyed by scope and key.
type Store interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Put(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
	// DeleteScope removes every key of scope.
	DeleteScope(ctx context.Context, scope string) error
	Close() error
}

// Bucket binds a Store to one scope.
type Bucket struct {
	store Store
	scope string
}

// Scope returns the bucket for scope.
func Scope(store Store, scope string) Bucket {
	return Bucket{store: store, scope: scope}
}

// Get returns the value for key or ErrNotFound.
func (b Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	return b.store.Get(ctx, b.scope, key)
}

// Put stores value under key.
func (b Bucket) Put(ctx context.Context, key string, value []byte) error {
	return b.store.Put(ctx, b.scope, key, value)
}

// Delete removes key. Missing keys are not an error.
func (b Bucket) Delete(ctx context.Context, key string) error {
	return b.store.Delete(ctx, b.scope, key)
}

// ValidateKey trims and checks scope and key.
func ValidateKey(scope, key string) (string, string, error) {
	scope = strings.TrimSpace(scope)
	key = strings.TrimSpace(key)
	if scope == "" || key == "" {
		return "", "", ErrInvalidKey
	}
	return scope, key, nil
}
