package live

import (
	"net/http"

	"github.com/safedrive/dashboard/internal/services/dashboard/detection"
	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/pagerender"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/weberror"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
	"go.uber.org/zap"
)

type handlers struct {
	deps   module.Dependencies
	logger *zap.Logger
}

func newHandlers(deps module.Dependencies) handlers {
	return handlers{deps: deps, logger: deps.Log()}
}

func (h handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.simulator(w, r)
	if !ok {
		return
	}
	loc := pagerender.Localizer(r)
	page := pagerender.Page{
		Title:    templates.T(loc, "Live Detection"),
		Fragment: templates.LiveDetectionPage(sim.Status(), loc),
	}
	if err := pagerender.Write(w, r, page); err != nil {
		h.logger.Warn("render page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (h handlers) handleStart(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.simulator(w, r)
	if !ok {
		return
	}
	if err := sim.Start(); err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.LiveDetection)
}

func (h handlers) handleStop(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.simulator(w, r)
	if !ok {
		return
	}
	sim.Stop()
	httpx.WriteRedirect(w, r, routepath.LiveDetection)
}

func (h handlers) handleCurrent(w http.ResponseWriter, r *http.Request) {
	sim, err := h.deps.ResolveSimulator(r)
	if err != nil {
		weberror.WriteJSON(w, r, err)
		return
	}
	status := sim.Status()
	msg := newMessage(pagerender.Localizer(r), detection.Event{Kind: EventSnapshot, State: status.State, Alert: status.Alert})
	if err := httpx.WriteJSON(w, http.StatusOK, msg); err != nil {
		h.logger.Warn("write current alert", zap.Error(err))
	}
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.NotFound(w, r)
}

func (h handlers) simulator(w http.ResponseWriter, r *http.Request) (*detection.Simulator, bool) {
	sim, err := h.deps.ResolveSimulator(r)
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return nil, false
	}
	return sim, true
}
