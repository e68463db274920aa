package detection

import (
	"strings"
	"sync"
	"time"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"go.uber.org/zap"
)

// Manager owns one simulator per browser scope.
type Manager struct {
	opts Options

	mu       sync.Mutex
	sims     map[string]*Simulator
	lastUsed map[string]time.Time
}

// NewManager creates a manager whose simulators share opts.
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:     opts.withDefaults(),
		sims:     make(map[string]*Simulator),
		lastUsed: make(map[string]time.Time),
	}
}

// For returns the simulator of scopeID, creating it on first use.
func (m *Manager) For(scopeID string) (*Simulator, error) {
	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "scope id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sim, ok := m.sims[scopeID]
	if !ok {
		sim = NewSimulator(m.opts)
		m.sims[scopeID] = sim
	}
	m.lastUsed[scopeID] = m.opts.Clock.Now()
	return sim, nil
}

// Lookup returns the simulator of scopeID if one exists.
func (m *Manager) Lookup(scopeID string) (*Simulator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sim, ok := m.sims[scopeID]
	return sim, ok
}

// Release closes and forgets the simulator of scopeID.
func (m *Manager) Release(scopeID string) {
	m.mu.Lock()
	sim, ok := m.sims[scopeID]
	delete(m.sims, scopeID)
	delete(m.lastUsed, scopeID)
	m.mu.Unlock()
	if ok {
		sim.Close()
	}
}

// Sweep releases simulators nobody is watching that have not been used for
// longer than idle, and returns how many were released. This ends
// detection for pages that were closed without stopping it.
func (m *Manager) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	cutoff := m.opts.Clock.Now().Add(-idle)
	m.mu.Lock()
	var released []*Simulator
	for scopeID, sim := range m.sims {
		if !m.lastUsed[scopeID].Before(cutoff) || sim.Subscribers() > 0 {
			continue
		}
		released = append(released, sim)
		delete(m.sims, scopeID)
		delete(m.lastUsed, scopeID)
	}
	m.mu.Unlock()
	for _, sim := range released {
		sim.Close()
	}
	if len(released) > 0 {
		m.opts.Logger.Debug("released idle simulators", zap.Int("count", len(released)))
	}
	return len(released)
}

// Len returns the number of live simulators.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sims)
}

// Close releases every simulator.
func (m *Manager) Close() {
	m.mu.Lock()
	sims := m.sims
	m.sims = make(map[string]*Simulator)
	m.lastUsed = make(map[string]time.Time)
	m.mu.Unlock()
	for _, sim := range sims {
		sim.Close()
	}
}
