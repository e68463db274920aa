package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safedrive_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	activeScopes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "safedrive_session_scopes",
			Help: "Browser scopes currently held in memory",
		},
	)
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)
