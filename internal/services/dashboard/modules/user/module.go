// Package user serves the signed-in driver's pages.
package user

import (
	"errors"
	"net/http"

	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

// Module provides driver routes.
type Module struct{}

// New returns a user module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "user" }

// Mount wires driver route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Dataset == nil {
		return module.Mount{}, errors.New("dataset is required")
	}
	if deps.ResolvePreferences == nil {
		return module.Mount{}, errors.New("preferences resolver is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps))
	return module.Mount{
		Patterns: []string{routepath.Dashboard, routepath.Profile, routepath.Alerts, routepath.Trips},
		Handler:  leaveLiveDetection(deps.ReleaseDetection, mux),
		Role:     session.RoleUser,
	}, nil
}

// leaveLiveDetection ends the scope's detection when the driver opens any
// other page. Detection state does not outlive the live page.
func leaveLiveDetection(release module.ReleaseDetection, next http.Handler) http.Handler {
	if release == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			release(r)
		}
		next.ServeHTTP(w, r)
	})
}
