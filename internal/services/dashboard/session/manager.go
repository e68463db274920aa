package session

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
	"go.uber.org/zap"
)

// Manager owns the session store of every active browser scope.
//
// Scopes unused for longer than Options.IdleTTL are disposed by Sweep. The
// persisted identity is kept, so a scope that comes back is restored.
type Manager struct {
	store storage.Store
	opts  Options

	mu        sync.Mutex
	scopes    map[string]*Store
	lastSeen  map[string]time.Time
	onDispose []func(scopeID string)
}

// NewManager creates a manager persisting through store.
func NewManager(store storage.Store, opts Options) *Manager {
	return &Manager{
		store:    store,
		opts:     opts.withDefaults(),
		scopes:   make(map[string]*Store),
		lastSeen: make(map[string]time.Time),
	}
}

// OnDispose registers fn to run after a scope is disposed.
func (m *Manager) OnDispose(fn func(scopeID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDispose = append(m.onDispose, fn)
}

// Scope returns the restored store for scopeID, creating it on first use.
func (m *Manager) Scope(ctx context.Context, scopeID string) (*Store, error) {
	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "scope id is required")
	}

	m.mu.Lock()
	s, ok := m.scopes[scopeID]
	if !ok {
		s = NewStore(storage.Scope(m.store, scopeID), m.opts)
		m.scopes[scopeID] = s
		activeScopes.Inc()
	}
	m.lastSeen[scopeID] = m.opts.Now()
	m.mu.Unlock()

	if err := s.Restore(ctx); err != nil {
		m.opts.Logger.Warn("restore session", zap.String("scope_id", scopeID), zap.Error(err))
	}
	return s, nil
}

// Peek returns the session snapshot of scopeID without registering the
// scope. Unknown scopes are read from storage through a throwaway store.
func (m *Manager) Peek(ctx context.Context, scopeID string) (Snapshot, error) {
	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" {
		return Snapshot{}, apperrors.New(apperrors.CodeInvalidArgument, "scope id is required")
	}
	m.mu.Lock()
	s, ok := m.scopes[scopeID]
	if ok {
		m.lastSeen[scopeID] = m.opts.Now()
	}
	m.mu.Unlock()
	if ok {
		return s.Snapshot(), nil
	}

	transient := NewStore(storage.Scope(m.store, scopeID), m.opts)
	if err := transient.Restore(ctx); err != nil {
		m.opts.Logger.Warn("restore session", zap.String("scope_id", scopeID), zap.Error(err))
	}
	return transient.Snapshot(), nil
}

// Sweep disposes every scope idle for longer than IdleTTL and returns how
// many were disposed. Scopes with a login in flight are kept.
func (m *Manager) Sweep() int {
	if m.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.opts.Now().Add(-m.opts.IdleTTL)
	m.mu.Lock()
	idle := make(map[string]*Store)
	for scopeID, seen := range m.lastSeen {
		s := m.scopes[scopeID]
		if !seen.Before(cutoff) || s.Snapshot().Loading {
			continue
		}
		idle[scopeID] = s
		delete(m.scopes, scopeID)
		delete(m.lastSeen, scopeID)
		activeScopes.Dec()
	}
	hooks := append([]func(string){}, m.onDispose...)
	m.mu.Unlock()

	for scopeID, s := range idle {
		s.Dispose()
		for _, fn := range hooks {
			fn(scopeID)
		}
	}
	if len(idle) > 0 {
		m.opts.Logger.Debug("evicted idle sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Lookup returns the store for scopeID without creating it.
func (m *Manager) Lookup(scopeID string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scopes[scopeID]
	return s, ok
}

// Dispose disposes and forgets scopeID.
func (m *Manager) Dispose(scopeID string) {
	m.mu.Lock()
	s, ok := m.scopes[scopeID]
	if ok {
		delete(m.scopes, scopeID)
		delete(m.lastSeen, scopeID)
		activeScopes.Dec()
	}
	hooks := append([]func(string){}, m.onDispose...)
	m.mu.Unlock()
	if !ok {
		return
	}
	s.Dispose()
	for _, fn := range hooks {
		fn(scopeID)
	}
}

// Len returns the number of live scopes.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scopes)
}

// Close disposes every scope.
func (m *Manager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.scopes))
	for id := range m.scopes {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Dispose(id)
	}
}
