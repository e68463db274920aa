// Package session holds the authenticated identity of each browser scope.
//
// A Store is created per scope by Manager.Scope and moves through
// init, ready (after Restore), mutate (Login and Logout) and dispose.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/platform/otel"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	// ErrAuthenticationFailed is returned by Login for unknown credentials.
	ErrAuthenticationFailed = apperrors.New(apperrors.CodeAuthenticationFailed, "invalid email or password")
	// ErrDisposed is returned by mutations on a disposed store.
	ErrDisposed = apperrors.New(apperrors.CodeSessionDisposed, "session disposed")
)

// Persister reads and writes the persisted identity of one scope.
// storage.Bucket satisfies it.
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Options configures stores.
type Options struct {
	// Credentials defaults to DemoCredentials.
	Credentials []Credential
	// LoginDelay stands in for the latency of a remote auth service.
	LoginDelay time.Duration
	// Sleep waits for LoginDelay. It defaults to time.Sleep and is not
	// interrupted by context cancellation.
	Sleep  func(time.Duration)
	Logger *zap.Logger

	// IdleTTL is how long Manager keeps an unused scope. Zero keeps scopes
	// until Close.
	IdleTTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Credentials == nil {
		o.Credentials = DemoCredentials()
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Snapshot is the state read by the access guard.
type Snapshot struct {
	Identity      Identity
	Authenticated bool
	Loading       bool
}

// Store is the session state of one browser scope.
type Store struct {
	persist Persister
	opts    Options

	restoreOnce sync.Once
	restoreErr  error

	mu       sync.RWMutex
	identity *Identity
	loading  bool
	pending  int // logins in flight
	disposed bool
}

// NewStore creates a store in the loading state. Call Restore before use.
func NewStore(persist Persister, opts Options) *Store {
	return &Store{
		persist: persist,
		opts:    opts.withDefaults(),
		loading: true,
	}
}

// Restore loads the persisted identity once. Missing or malformed data
// leaves the store unauthenticated. Loading is always cleared; a storage
// failure is returned after the store has become ready.
func (s *Store) Restore(ctx context.Context) error {
	s.restoreOnce.Do(func() {
		s.restoreErr = s.restore(ctx)
	})
	return s.restoreErr
}

func (s *Store) restore(ctx context.Context) error {
	var (
		restored *Identity
		err      error
	)
	data, getErr := s.persist.Get(ctx, storage.KeyUser)
	switch {
	case errors.Is(getErr, storage.ErrNotFound):
	case getErr != nil:
		err = apperrors.Wrap(apperrors.CodeStorageUnavailable, "restore session", getErr)
	default:
		identity, decodeErr := DecodeIdentity(data)
		if decodeErr != nil {
			s.opts.Logger.Debug("discarding persisted identity", zap.Error(decodeErr))
			break
		}
		restored = &identity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.disposed {
		s.identity = restored
	}
	s.loading = s.pending > 0
	return err
}

// Login authenticates against the credential set after the configured
// delay. On success the identity becomes current and is persisted; on any
// failure the state is unchanged.
func (s *Store) Login(ctx context.Context, email, secret string) (Identity, error) {
	ctx, span := otel.Tracer().Start(ctx, "session.Login")
	defer span.End()

	if err := s.begin(); err != nil {
		return Identity{}, err
	}
	defer s.end()

	s.opts.Sleep(s.opts.LoginDelay)

	identity, ok := match(s.opts.Credentials, email, secret)
	if !ok {
		loginAttemptsTotal.WithLabelValues(outcomeFailure).Inc()
		span.SetAttributes(attribute.Bool("session.authenticated", false))
		return Identity{}, ErrAuthenticationFailed
	}
	data, err := EncodeIdentity(identity)
	if err != nil {
		return Identity{}, err
	}
	if err := s.persist.Put(ctx, storage.KeyUser, data); err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "persist session", err)
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return Identity{}, ErrDisposed
	}
	s.identity = &identity
	s.mu.Unlock()

	loginAttemptsTotal.WithLabelValues(outcomeSuccess).Inc()
	span.SetAttributes(
		attribute.Bool("session.authenticated", true),
		attribute.String("session.role", string(identity.Role)),
	)
	return identity, nil
}

func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	s.pending++
	s.loading = true
	return nil
}

func (s *Store) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.pending == 0 {
		s.loading = false
	}
}

// Logout clears the current identity and removes the persisted record.
// The in-memory identity is cleared even when the delete fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	s.identity = nil
	s.mu.Unlock()

	if err := s.persist.Delete(ctx, storage.KeyUser); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageUnavailable, "clear session", err)
	}
	return nil
}

// Identity returns the current identity.
func (s *Store) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// IsAdmin reports whether the current identity is an admin.
func (s *Store) IsAdmin() bool {
	identity, ok := s.Identity()
	return ok && identity.IsAdmin()
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Loading: s.loading}
	if s.identity != nil {
		snap.Identity = *s.identity
		snap.Authenticated = true
	}
	return snap
}

// Dispose ends the store's lifecycle. The persisted record is kept so a
// later scope with the same id can restore it.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.identity = nil
	s.loading = false
}

// Disposed reports whether Dispose has been called.
func (s *Store) Disposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disposed
}
