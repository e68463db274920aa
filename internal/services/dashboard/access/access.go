// Package access decides whether a request may see a role-gated page.
package access

import (
	"context"
	"net/http"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

// State is the outcome of one guard evaluation.
type State int

const (
	Loading State = iota
	Unauthenticated
	Redirecting
	Authorized
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Redirecting:
		return "redirecting"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Decision is a guard result. Location is set for Unauthenticated and
// Redirecting.
type Decision struct {
	State    State
	Location string
}

// Home returns the landing page of role.
func Home(role session.Role) string {
	if role == session.RoleAdmin {
		return routepath.AdminDashboard
	}
	return routepath.Dashboard
}

// Evaluate maps a session snapshot and the route's required role to a
// decision. An empty required role admits any signed-in identity.
func Evaluate(snapshot session.Snapshot, required session.Role) Decision {
	switch {
	case snapshot.Loading:
		return Decision{State: Loading}
	case !snapshot.Authenticated:
		return Decision{State: Unauthenticated, Location: routepath.Login}
	case required != "" && snapshot.Identity.Role != required:
		return Decision{State: Redirecting, Location: Home(snapshot.Identity.Role)}
	default:
		return Decision{State: Authorized}
	}
}

type storeContextKey struct{}

// WithStore attaches the session store that authorized the request.
func WithStore(ctx context.Context, store *session.Store) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, storeContextKey{}, store)
}

// StoreFromContext returns the store attached by Guard.
func StoreFromContext(ctx context.Context) (*session.Store, bool) {
	if ctx == nil {
		return nil, false
	}
	store, ok := ctx.Value(storeContextKey{}).(*session.Store)
	return store, ok && store != nil
}

// GuardOptions configures Guard.
type GuardOptions struct {
	// Resolve returns the session store of the request's scope.
	Resolve func(*http.Request) (*session.Store, error)
	// Loading renders the page shown while the session is not ready.
	Loading http.Handler
	// Error renders resolve failures.
	Error func(http.ResponseWriter, *http.Request, error)
}

// LoadingRefresh asks the browser to retry a loading page.
const LoadingRefresh = "1"

// Guard wraps protected handlers with Evaluate.
func Guard(required session.Role, opts GuardOptions) httpx.Middleware {
	if opts.Loading == nil {
		opts.Loading = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = httpx.WriteHTML(w, http.StatusOK, "<p>Loading...</p>")
		})
	}
	if opts.Error == nil {
		opts.Error = func(w http.ResponseWriter, _ *http.Request, err error) {
			status := apperrors.HTTPStatus(err)
			http.Error(w, http.StatusText(status), status)
		}
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Resolve == nil {
				opts.Error(w, r, apperrors.New(apperrors.CodeUnknown, "session resolver is not configured"))
				return
			}
			store, err := opts.Resolve(r)
			if err != nil {
				opts.Error(w, r, err)
				return
			}
			decision := Evaluate(store.Snapshot(), required)
			switch decision.State {
			case Loading:
				w.Header().Set("Refresh", LoadingRefresh)
				w.Header().Set("Cache-Control", "no-store")
				opts.Loading.ServeHTTP(w, r)
			case Unauthenticated, Redirecting:
				httpx.WriteRedirect(w, r, decision.Location)
			default:
				next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), store)))
			}
		})
	}
}
