// Package auth serves the public sign-in, sign-out and registration pages.
package auth

import (
	"errors"
	"net/http"

	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
)

// Module provides public authentication routes.
type Module struct{}

// New returns an auth module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Mount wires auth route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.ResolveSession == nil {
		return module.Mount{}, errors.New("session resolver is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps))
	return module.Mount{
		Patterns: []string{routepath.Root + "{$}", routepath.Login, routepath.Logout, routepath.Register},
		Handler:  mux,
	}, nil
}
