package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/sessioncookie"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

type stubModule struct {
	id    string
	mount module.Mount
	err   error
}

func (m stubModule) ID() string { return m.id }

func (m stubModule) Mount(module.Dependencies) (module.Mount, error) {
	return m.mount, m.err
}

func status(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(code) })
}

// roleGuard admits requests whose X-Role header equals the required role.
func roleGuard(required session.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if required != "" && r.Header.Get("X-Role") != string(required) {
				w.WriteHeader(http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func TestComposeRejectsInvalidModules(t *testing.T) {
	t.Parallel()

	ok := status(http.StatusNoContent)
	tests := []struct {
		name  string
		input ComposeInput
	}{
		{name: "nil public", input: ComposeInput{PublicModules: []module.Module{nil}}},
		{name: "nil protected", input: ComposeInput{Guard: roleGuard, ProtectedModules: []module.Module{nil}}},
		{name: "protected without guard", input: ComposeInput{ProtectedModules: []module.Module{
			stubModule{id: "admin", mount: module.Mount{Patterns: []string{"/admin/"}, Handler: ok, Role: session.RoleAdmin}},
		}}},
		{name: "duplicate pattern", input: ComposeInput{PublicModules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Patterns: []string{"/login"}, Handler: ok}},
			stubModule{id: "two", mount: module.Mount{Patterns: []string{" /login "}, Handler: ok}},
		}}},
		{name: "public with role", input: ComposeInput{PublicModules: []module.Module{
			stubModule{id: "admin", mount: module.Mount{Patterns: []string{"/admin/"}, Handler: ok, Role: session.RoleAdmin}},
		}}},
		{name: "unknown role", input: ComposeInput{Guard: roleGuard, ProtectedModules: []module.Module{
			stubModule{id: "x", mount: module.Mount{Patterns: []string{"/x"}, Handler: ok, Role: "root"}},
		}}},
		{name: "no patterns", input: ComposeInput{PublicModules: []module.Module{
			stubModule{id: "x", mount: module.Mount{Handler: ok}},
		}}},
		{name: "relative pattern", input: ComposeInput{PublicModules: []module.Module{
			stubModule{id: "x", mount: module.Mount{Patterns: []string{"login"}, Handler: ok}},
		}}},
		{name: "nil handler", input: ComposeInput{PublicModules: []module.Module{
			stubModule{id: "x", mount: module.Mount{Patterns: []string{"/x"}}},
		}}},
		{name: "mount error", input: ComposeInput{PublicModules: []module.Module{
			stubModule{id: "x", err: errors.New("boom")},
		}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := (Composer{}).Compose(tc.input); err == nil {
				t.Fatal("expected compose error")
			}
		})
	}
}

func TestComposeRoutesGroups(t *testing.T) {
	t.Parallel()

	h, err := (Composer{}).Compose(ComposeInput{
		Guard: roleGuard,
		PublicModules: []module.Module{
			stubModule{id: "auth", mount: module.Mount{Patterns: []string{"/login"}, Handler: status(http.StatusOK)}},
		},
		ProtectedModules: []module.Module{
			stubModule{id: "admin", mount: module.Mount{Patterns: []string{"/admin", "/admin/"}, Handler: status(http.StatusNoContent), Role: session.RoleAdmin}},
			stubModule{id: "user", mount: module.Mount{Patterns: []string{"/trips"}, Handler: status(http.StatusAccepted), Role: session.RoleUser}},
		},
		NotFound: status(http.StatusGone),
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	tests := []struct {
		name string
		path string
		role string
		want int
	}{
		{name: "public", path: "/login", want: http.StatusOK},
		{name: "admin allowed", path: "/admin/drivers", role: "admin", want: http.StatusNoContent},
		{name: "admin root allowed", path: "/admin", role: "admin", want: http.StatusNoContent},
		{name: "admin guarded", path: "/admin/drivers", role: "user", want: http.StatusFound},
		{name: "user allowed", path: "/trips", role: "user", want: http.StatusAccepted},
		{name: "user guarded", path: "/trips", want: http.StatusFound},
		{name: "unknown", path: "/nope", want: http.StatusGone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.role != "" {
				req.Header.Set("X-Role", tc.role)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestComposeRejectsCrossOriginMutationWithSessionCookie(t *testing.T) {
	t.Parallel()

	h, err := (Composer{}).Compose(ComposeInput{
		Guard: roleGuard,
		PublicModules: []module.Module{
			stubModule{id: "auth", mount: module.Mount{Patterns: []string{"/logout"}, Handler: status(http.StatusNoContent)}},
		},
		ProtectedModules: []module.Module{
			stubModule{id: "live", mount: module.Mount{Patterns: []string{"/live-detection/"}, Handler: status(http.StatusNoContent), Role: session.RoleUser}},
		},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		origin string
		cookie bool
		want   int
	}{
		{name: "same origin", path: "/live-detection/start", origin: "http://example.com", cookie: true, want: http.StatusNoContent},
		{name: "cross origin", path: "/live-detection/start", origin: "http://evil.test", cookie: true, want: http.StatusForbidden},
		{name: "missing proof", path: "/live-detection/start", cookie: true, want: http.StatusForbidden},
		{name: "no cookie", path: "/live-detection/start", origin: "http://evil.test", want: http.StatusNoContent},
		{name: "public cross origin", path: "/logout", origin: "http://evil.test", cookie: true, want: http.StatusForbidden},
		{name: "public same origin", path: "/logout", origin: "http://example.com", cookie: true, want: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "http://example.com"+tc.path, nil)
			req.Header.Set("X-Role", "user")
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.cookie {
				req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "token"})
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}
