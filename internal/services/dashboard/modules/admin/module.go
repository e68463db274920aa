// Package admin serves the fleet administrator pages.
package admin

import (
	"errors"
	"net/http"

	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

// Module provides admin-only routes.
type Module struct{}

// New returns an admin module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "admin" }

// Mount wires admin route handlers.
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
		Patterns: []string{routepath.Admin, routepath.AdminPrefix},
		Handler:  mux,
		Role:     session.RoleAdmin,
	}, nil
}
