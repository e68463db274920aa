// Package redis provides a Redis-backed scope storage implementation. Each
// scope is one hash whose fields are the storage keys.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/safedrive/dashboard/internal/platform/timeouts"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
)

const keyPrefix = "safedrive:scope:"

// Store persists scope values in Redis.
type Store struct {
	client *goredis.Client
	// ttl refreshes on every write; zero keeps scopes forever.
	ttl time.Duration
}

var _ storage.Store = (*Store)(nil)

// Open parses url, connects and pings the server.
func Open(url string, ttl time.Duration) (*Store, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.StoreOpen)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, ttl), nil
}

// New wraps an existing client.
func New(client *goredis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func scopeKey(scope string) string { return keyPrefix + scope }

// Close closes the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Get returns the value stored for scope and key.
func (s *Store) Get(ctx context.Context, scope, key string) ([]byte, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	scope, key, err := storage.ValidateKey(scope, key)
	if err != nil {
		return nil, err
	}
	value, err := s.client.HGet(ctx, scopeKey(scope), key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scope value: %w", err)
	}
	return value, nil
}

// Put sets the value for scope and key and refreshes the scope TTL.
func (s *Store) Put(ctx context.Context, scope, key string, value []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	scope, key, err := storage.ValidateKey(scope, key)
	if err != nil {
		return err
	}
	hash := scopeKey(scope)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, hash, key, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, hash, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put scope value: %w", err)
	}
	return nil
}

// Delete removes the value for scope and key.
func (s *Store) Delete(ctx context.Context, scope, key string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	scope, key, err := storage.ValidateKey(scope, key)
	if err != nil {
		return err
	}
	if err := s.client.HDel(ctx, scopeKey(scope), key).Err(); err != nil {
		return fmt.Errorf("delete scope value: %w", err)
	}
	return nil
}

// DeleteScope removes every value of scope.
func (s *Store) DeleteScope(ctx context.Context, scope string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return storage.ErrInvalidKey
	}
	if err := s.client.Del(ctx, scopeKey(scope)).Err(); err != nil {
		return fmt.Errorf("delete scope: %w", err)
	}
	return nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.client == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}
