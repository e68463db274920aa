// Package sqlite provides a SQLite-backed scope storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/safedrive/dashboard/internal/platform/storage/sqlitemigrate"
	"github.com/safedrive/dashboard/internal/platform/timeouts"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists scope values in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.StoreOpen)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
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
	var value []byte
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM scope_values WHERE scope = ? AND name = ?`,
		scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scope value: %w", err)
	}
	return value, nil
}

// Put inserts or replaces the value for scope and key.
func (s *Store) Put(ctx context.Context, scope, key string, value []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	scope, key, err := storage.ValidateKey(scope, key)
	if err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO scope_values (scope, name, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, value, toMillis(s.now()),
	)
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
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM scope_values WHERE scope = ? AND name = ?`, scope, key,
	); err != nil {
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
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM scope_values WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("delete scope: %w", err)
	}
	return nil
}

// PruneBefore deletes values not written since cutoff and returns how many
// were removed.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM scope_values WHERE updated_at < ?`, toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune scope values: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}
