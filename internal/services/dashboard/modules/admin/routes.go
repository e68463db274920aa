package admin

import (
	"net/http"

	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Admin, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminPrefix+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminDashboard, h.handleDashboard)
	mux.Handle(http.MethodGet+" "+routepath.AdminDrivers, h.drivers)
	mux.Handle(http.MethodGet+" "+routepath.AdminAlerts, h.alerts)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminSettings, h.handleSettings)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminSettings, h.handleSaveSettings)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminPrefix, h.handleNotFound)
}
