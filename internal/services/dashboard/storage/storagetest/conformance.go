// Package storagetest holds the shared Store contract test.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
)

// RunConformance exercises the Store contract against store. Each backend's
// tests call it with a fresh store.
func RunConformance(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "scope-a", storage.KeyUser); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing = %v, want ErrNotFound", err)
	}
	if err := store.Put(ctx, "scope-a", storage.KeyUser, []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "scope-a", storage.KeyProfile, []byte(`{}`)); err != nil {
		t.Fatalf("put profile: %v", err)
	}
	if err := store.Put(ctx, "scope-b", storage.KeyUser, []byte(`{"id":"2"}`)); err != nil {
		t.Fatalf("put other scope: %v", err)
	}

	got, err := store.Get(ctx, "scope-a", storage.KeyUser)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"id":"1"}` {
		t.Fatalf("value = %q", got)
	}

	if err := store.Put(ctx, "scope-a", storage.KeyUser, []byte(`{"id":"3"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = store.Get(ctx, "scope-a", storage.KeyUser)
	if err != nil || string(got) != `{"id":"3"}` {
		t.Fatalf("overwritten value = %q, %v", got, err)
	}

	if err := store.Delete(ctx, "scope-a", storage.KeyUser); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "scope-a", storage.KeyUser); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, err := store.Get(ctx, "scope-a", storage.KeyUser); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted = %v, want ErrNotFound", err)
	}

	if err := store.DeleteScope(ctx, "scope-a"); err != nil {
		t.Fatalf("delete scope: %v", err)
	}
	if _, err := store.Get(ctx, "scope-a", storage.KeyProfile); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get after scope delete = %v, want ErrNotFound", err)
	}
	if got, err := store.Get(ctx, "scope-b", storage.KeyUser); err != nil || string(got) != `{"id":"2"}` {
		t.Fatalf("other scope = %q, %v", got, err)
	}

	if err := store.Put(ctx, "", storage.KeyUser, nil); !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("empty scope = %v, want ErrInvalidKey", err)
	}
	if _, err := store.Get(ctx, "scope-b", " "); !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("blank key = %v, want ErrInvalidKey", err)
	}
}
