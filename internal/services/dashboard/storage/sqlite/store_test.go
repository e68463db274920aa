package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage/storagetest"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "safedrive.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(" "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestConformance(t *testing.T) {
	t.Parallel()

	storagetest.RunConformance(t, openTempStore(t))
}

func TestReopenKeepsValuesAndSkipsMigrations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "safedrive.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Put(context.Background(), "scope", storage.KeyUser, []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	got, err := second.Get(context.Background(), "scope", storage.KeyUser)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != `{"id":"1"}` {
		t.Fatalf("value = %q", got)
	}
}

func TestPruneBefore(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base }
	if err := store.Put(ctx, "old", storage.KeyUser, []byte("a")); err != nil {
		t.Fatalf("put old: %v", err)
	}
	store.now = func() time.Time { return base.Add(48 * time.Hour) }
	if err := store.Put(ctx, "new", storage.KeyUser, []byte("b")); err != nil {
		t.Fatalf("put new: %v", err)
	}

	removed, err := store.PruneBefore(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := store.Get(ctx, "old", storage.KeyUser); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("old value = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, "new", storage.KeyUser); err != nil {
		t.Fatalf("new value: %v", err)
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.Get(context.Background(), "s", "k"); err == nil {
		t.Fatal("expected not configured error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}
