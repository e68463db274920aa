// Package module defines the contract between the app composer and the
// dashboard's feature modules.
package module

import (
	"net/http"
	"time"

	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/detection"
	"github.com/safedrive/dashboard/internal/services/dashboard/preferences"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
	"go.uber.org/zap"
)

// ResolveSession returns the session store of the request's browser scope.
type ResolveSession func(*http.Request) (*session.Store, error)

// PeekSession returns the session snapshot of the request's browser scope
// without keeping the scope in memory.
type PeekSession func(*http.Request) (session.Snapshot, error)

// ResolveSimulator returns the detection simulator of the request's scope.
type ResolveSimulator func(*http.Request) (*detection.Simulator, error)

// ResolvePreferences returns the preference store of the request's scope.
type ResolvePreferences func(*http.Request) (preferences.Store, error)

// ReleaseDetection closes the simulator of the request's scope.
type ReleaseDetection func(*http.Request)

// Dependencies carries shared services into modules.
type Dependencies struct {
	Dataset     *dataset.Provider
	Credentials []session.Credential
	Now         func() time.Time
	Logger      *zap.Logger

	ResolveSession     ResolveSession
	PeekSession        PeekSession
	ResolveSimulator   ResolveSimulator
	ResolvePreferences ResolvePreferences
	ReleaseDetection   ReleaseDetection
}

// Clock returns Now, defaulting to time.Now.
func (d Dependencies) Clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}

// Log returns Logger, defaulting to a no-op logger.
func (d Dependencies) Log() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

// Mount is what a module contributes to the root mux.
type Mount struct {
	// Patterns are registered on the root mux, each routed to Handler.
	Patterns []string
	Handler  http.Handler
	// Role is required by protected modules; empty admits any signed-in
	// identity. Public modules must leave it empty.
	Role session.Role
}

// Module is one feature area of the dashboard.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}
