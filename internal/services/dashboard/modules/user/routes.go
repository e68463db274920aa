package user

import (
	"net/http"

	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Dashboard, h.handleDashboard)
	mux.HandleFunc(http.MethodGet+" "+routepath.Profile, h.handleProfile)
	mux.HandleFunc(http.MethodPost+" "+routepath.Profile, h.handleSaveProfile)
	mux.Handle(http.MethodGet+" "+routepath.Alerts, h.alerts)
	mux.Handle(http.MethodGet+" "+routepath.Trips, h.trips)
}
