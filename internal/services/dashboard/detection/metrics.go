package detection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	alertsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safedrive_detection_alerts_total",
			Help: "Total number of simulated detection alerts",
		},
		[]string{"type"},
	)

	activeSimulators = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "safedrive_detection_active",
		Help: "Number of simulators currently detecting",
	})
)
