package dashboard

import (
	"net/http"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/platform/id"
	"github.com/safedrive/dashboard/internal/platform/requestctx"
	"github.com/safedrive/dashboard/internal/services/dashboard/detection"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/sessioncookie"
	"github.com/safedrive/dashboard/internal/services/dashboard/preferences"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
	"go.uber.org/zap"
)

// scopeResolver maps a request's browser scope to its per-scope services.
type scopeResolver struct {
	codec      *sessioncookie.Codec
	sessions   *session.Manager
	detections *detection.Manager
	store      storage.Store
	logger     *zap.Logger
}

func newScopeResolver(codec *sessioncookie.Codec, sessions *session.Manager, detections *detection.Manager, store storage.Store, logger *zap.Logger) *scopeResolver {
	sessions.OnDispose(detections.Release)
	return &scopeResolver{
		codec:      codec,
		sessions:   sessions,
		detections: detections,
		store:      store,
		logger:     logger,
	}
}

// withScope attaches the browser scope to every request, issuing a new
// signed cookie when the request carries none or an invalid one.
func (s *scopeResolver) withScope() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scopeID, ok := s.codec.ScopeID(r)
			if !ok || !id.Valid(scopeID) {
				generated, err := id.NewID()
				if err != nil {
					s.logger.Error("generate scope id", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				if err := s.codec.Write(w, r, generated); err != nil {
					s.logger.Error("write session cookie", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				scopeID = generated
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithScopeID(r.Context(), scopeID)))
		})
	}
}

func (s *scopeResolver) scopeID(r *http.Request) (string, error) {
	if r == nil {
		return "", apperrors.New(apperrors.CodeUnknown, "request is required")
	}
	scopeID := requestctx.ScopeIDFromContext(r.Context())
	if scopeID == "" {
		return "", apperrors.New(apperrors.CodeUnknown, "request has no browser scope")
	}
	return scopeID, nil
}

func (s *scopeResolver) resolveSession(r *http.Request) (*session.Store, error) {
	scopeID, err := s.scopeID(r)
	if err != nil {
		return nil, err
	}
	return s.sessions.Scope(r.Context(), scopeID)
}

func (s *scopeResolver) peekSession(r *http.Request) (session.Snapshot, error) {
	scopeID, err := s.scopeID(r)
	if err != nil {
		return session.Snapshot{}, err
	}
	return s.sessions.Peek(r.Context(), scopeID)
}

func (s *scopeResolver) resolveSimulator(r *http.Request) (*detection.Simulator, error) {
	scopeID, err := s.scopeID(r)
	if err != nil {
		return nil, err
	}
	return s.detections.For(scopeID)
}

func (s *scopeResolver) resolvePreferences(r *http.Request) (preferences.Store, error) {
	scopeID, err := s.scopeID(r)
	if err != nil {
		return preferences.Store{}, err
	}
	return preferences.NewStore(storage.Scope(s.store, scopeID)), nil
}

func (s *scopeResolver) releaseDetection(r *http.Request) {
	scopeID, err := s.scopeID(r)
	if err != nil {
		return
	}
	s.detections.Release(scopeID)
}
