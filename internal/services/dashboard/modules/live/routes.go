package live

import (
	"net/http"

	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.LiveDetection, h.handlePage)
	mux.HandleFunc(http.MethodGet+" "+routepath.LiveDetectionPrefix+"{$}", h.handlePage)
	mux.HandleFunc(http.MethodPost+" "+routepath.LiveDetectionStart, h.handleStart)
	mux.HandleFunc(http.MethodPost+" "+routepath.LiveDetectionStop, h.handleStop)
	mux.HandleFunc(http.MethodGet+" "+routepath.LiveDetectionCurrent, h.handleCurrent)
	mux.HandleFunc(http.MethodGet+" "+routepath.LiveDetectionStream, h.handleStream)
	mux.HandleFunc(http.MethodGet+" "+routepath.LiveDetectionPrefix, h.handleNotFound)
}
