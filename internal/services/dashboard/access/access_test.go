package access

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
)

var (
	admin  = session.Identity{ID: "1", Name: "Admin User", Email: "admin@safedrive.com", Role: session.RoleAdmin}
	driver = session.Identity{ID: "2", Name: "John Driver", Email: "driver@safedrive.com", Role: session.RoleUser}
)

func TestEvaluateMatrix(t *testing.T) {
	t.Parallel()

	roles := []session.Role{"", session.RoleAdmin, session.RoleUser}
	identities := []session.Identity{admin, driver}

	for _, required := range roles {
		for _, loading := range []bool{false, true} {
			got := Evaluate(session.Snapshot{Loading: loading}, required)
			want := Decision{State: Unauthenticated, Location: routepath.Login}
			if loading {
				want = Decision{State: Loading}
			}
			if got != want {
				t.Fatalf("anonymous loading=%v required=%q: got %+v, want %+v", loading, required, got, want)
			}

			for _, identity := range identities {
				snap := session.Snapshot{Identity: identity, Authenticated: true, Loading: loading}
				got := Evaluate(snap, required)
				switch {
				case loading:
					want = Decision{State: Loading}
				case required == "" || required == identity.Role:
					want = Decision{State: Authorized}
				default:
					want = Decision{State: Redirecting, Location: Home(identity.Role)}
				}
				if got != want {
					t.Fatalf("%s loading=%v required=%q: got %+v, want %+v", identity.Role, loading, required, got, want)
				}
			}
		}
	}
}

func TestHome(t *testing.T) {
	t.Parallel()

	if got := Home(session.RoleAdmin); got != routepath.AdminDashboard {
		t.Fatalf("admin home = %q", got)
	}
	if got := Home(session.RoleUser); got != routepath.Dashboard {
		t.Fatalf("user home = %q", got)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		Loading:         "loading",
		Unauthenticated: "unauthenticated",
		Redirecting:     "redirecting",
		Authorized:      "authorized",
		State(99):       "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func readyStore(t *testing.T, identity *session.Identity) *session.Store {
	t.Helper()
	store := session.NewStore(storage.Scope(storage.NewMemory(), "scope"), session.Options{Sleep: func(time.Duration) {}})
	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if identity != nil {
		if _, err := store.Login(context.Background(), identity.Email, session.DemoSecret); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	return store
}

func TestGuard(t *testing.T) {
	t.Parallel()

	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := StoreFromContext(r.Context()); !ok {
			t.Errorf("expected store on protected request context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name         string
		identity     *session.Identity
		required     session.Role
		htmx         bool
		wantStatus   int
		wantLocation string
		wantHX       string
	}{
		{name: "anonymous", required: session.RoleAdmin, wantStatus: http.StatusFound, wantLocation: routepath.Login},
		{name: "anonymous htmx", required: session.RoleUser, htmx: true, wantStatus: http.StatusOK, wantHX: routepath.Login},
		{name: "admin on user page", identity: &admin, required: session.RoleUser, wantStatus: http.StatusFound, wantLocation: routepath.AdminDashboard},
		{name: "driver on admin page", identity: &driver, required: session.RoleAdmin, wantStatus: http.StatusFound, wantLocation: routepath.Dashboard},
		{name: "admin on admin page", identity: &admin, required: session.RoleAdmin, wantStatus: http.StatusTeapot},
		{name: "driver on any role page", identity: &driver, wantStatus: http.StatusTeapot},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := readyStore(t, tc.identity)
			h := Guard(tc.required, GuardOptions{
				Resolve: func(*http.Request) (*session.Store, error) { return store, nil },
			})(protected)

			req := httptest.NewRequest(http.MethodGet, "/page", nil)
			if tc.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if got := rr.Header().Get("Location"); got != tc.wantLocation {
				t.Fatalf("Location = %q, want %q", got, tc.wantLocation)
			}
			if got := rr.Header().Get("HX-Redirect"); got != tc.wantHX {
				t.Fatalf("HX-Redirect = %q, want %q", got, tc.wantHX)
			}
		})
	}
}

func TestGuardRendersLoadingPageWithRefresh(t *testing.T) {
	t.Parallel()

	store := session.NewStore(storage.Scope(storage.NewMemory(), "scope"), session.Options{})
	h := Guard(session.RoleUser, GuardOptions{
		Resolve: func(*http.Request) (*session.Store, error) { return store, nil },
		Loading: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("spinner"))
		}),
	})(http.NotFoundHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Refresh"); got != LoadingRefresh {
		t.Fatalf("Refresh = %q", got)
	}
	if rr.Body.String() != "spinner" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestGuardReportsResolveErrors(t *testing.T) {
	t.Parallel()

	var got error
	h := Guard(session.RoleUser, GuardOptions{
		Resolve: func(*http.Request) (*session.Store, error) {
			return nil, apperrors.New(apperrors.CodeStorageUnavailable, "down")
		},
		Error: func(w http.ResponseWriter, _ *http.Request, err error) {
			got = err
			w.WriteHeader(apperrors.HTTPStatus(err))
		},
	})(http.NotFoundHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/trips", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	if !errors.Is(got, apperrors.New(apperrors.CodeStorageUnavailable, "")) {
		t.Fatalf("error = %v", got)
	}
}

func TestGuardWithoutResolverFails(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Guard("", GuardOptions{})(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestStoreFromContextEmpty(t *testing.T) {
	t.Parallel()

	if _, ok := StoreFromContext(context.Background()); ok {
		t.Fatal("expected no store")
	}
	if _, ok := StoreFromContext(WithStore(context.Background(), nil)); ok {
		t.Fatal("expected nil store to be reported as missing")
	}
}
