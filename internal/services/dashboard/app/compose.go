// Package app composes feature modules into the dashboard's root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/requestmeta"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/sessioncookie"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	Dependencies     module.Dependencies
	PublicModules    []module.Module
	ProtectedModules []module.Module
	// Guard gates protected modules by role.
	Guard func(session.Role) httpx.Middleware
	// NotFound handles paths no module owns.
	NotFound http.Handler
}

// Composer wires root mux mounts and route-group access behavior.
type Composer struct{}

// Compose builds a root HTTP handler from module groups.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	if len(input.ProtectedModules) > 0 && input.Guard == nil {
		return nil, fmt.Errorf("protected modules require a guard")
	}
	root := http.NewServeMux()
	seen := make(map[string]string)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		mount, err := resolveMount(feature, input.Dependencies)
		if err != nil {
			return nil, err
		}
		if mount.Role != "" {
			return nil, fmt.Errorf("module %q requires role %q in public group", feature.ID(), mount.Role)
		}
		if err := mountModule(root, feature, mount, seen, requireCookieSessionSameOrigin()); err != nil {
			return nil, err
		}
	}

	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		mount, err := resolveMount(feature, input.Dependencies)
		if err != nil {
			return nil, err
		}
		if err := mountModule(root, feature, mount, seen, wrapProtectedModule(input.Guard(mount.Role))); err != nil {
			return nil, err
		}
	}

	if _, ok := seen["/"]; !ok {
		notFound := input.NotFound
		if notFound == nil {
			notFound = http.NotFoundHandler()
		}
		root.Handle("/", notFound)
	}
	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, mount module.Mount, seen map[string]string, wrap httpx.Middleware) error {
	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	for _, pattern := range mount.Patterns {
		if previous, ok := seen[pattern]; ok {
			return fmt.Errorf("module %q duplicates pattern %q owned by module %q", feature.ID(), pattern, previous)
		}
		seen[pattern] = feature.ID()
		root.Handle(pattern, handler)
	}
	return nil
}

func resolveMount(feature module.Module, deps module.Dependencies) (module.Mount, error) {
	mount, err := feature.Mount(deps)
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if len(mount.Patterns) == 0 {
		return module.Mount{}, fmt.Errorf("mount module %q: at least one pattern is required", feature.ID())
	}
	patterns := make([]string, 0, len(mount.Patterns))
	for _, pattern := range mount.Patterns {
		pattern = strings.TrimSpace(pattern)
		if !strings.HasPrefix(pattern, "/") {
			return module.Mount{}, fmt.Errorf("mount module %q: pattern %q must start with /", feature.ID(), pattern)
		}
		patterns = append(patterns, pattern)
	}
	mount.Patterns = patterns
	if mount.Handler == nil {
		return module.Mount{}, fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	if mount.Role != "" && !mount.Role.Valid() {
		return module.Mount{}, fmt.Errorf("mount module %q: unknown role %q", feature.ID(), mount.Role)
	}
	return mount, nil
}

func wrapProtectedModule(guard httpx.Middleware) httpx.Middleware {
	csrfWrap := requireCookieSessionSameOrigin()
	return func(next http.Handler) http.Handler {
		return guard(csrfWrap(next))
	}
}

func requireCookieSessionSameOrigin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProof(r) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
