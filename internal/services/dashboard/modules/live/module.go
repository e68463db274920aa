// Package live serves the driver's live detection page and alert stream.
package live

import (
	"errors"
	"net/http"

	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

// Module provides live detection routes.
type Module struct{}

// New returns a live detection module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "live" }

// Mount wires live detection route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.ResolveSimulator == nil {
		return module.Mount{}, errors.New("simulator resolver is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps))
	return module.Mount{
		Patterns: []string{routepath.LiveDetection, routepath.LiveDetectionPrefix},
		Handler:  mux,
		Role:     session.RoleUser,
	}, nil
}
