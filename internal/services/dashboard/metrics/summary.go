package metrics

import (
	"time"

	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/listview"
)

const (
	// ActiveVehicles is reported by the fleet telematics feed, which the
	// dashboard does not model.
	ActiveVehicles = 42

	// DriverSafetyScore and DriverHoursThisWeek back the driver dashboard
	// cards until per-driver scoring exists.
	DriverSafetyScore   = 87
	DriverHoursThisWeek = 23.5

	recentLimit       = 5
	recentAlertsLimit = 4
)

// DailyAlerts is one day of the weekly alert chart.
type DailyAlerts struct {
	Day        string
	Drowsy     int
	Drunk      int
	Distracted int
}

// TypeShare is one slice of the alert type chart.
type TypeShare struct {
	Type  dataset.AlertType
	Value int
}

// GrowthPoint is one month of fleet growth.
type GrowthPoint struct {
	Month   string
	Drivers int
}

// ScorePoint is one day of a driver's safety score history.
type ScorePoint struct {
	Day   string
	Score int
}

// UpcomingTrip is a scheduled trip on the driver dashboard.
type UpcomingTrip struct {
	ID       string
	Name     string
	Date     time.Time
	Duration string
}

// Admin is the fleet overview on the admin dashboard.
type Admin struct {
	TotalDrivers       int
	ActiveDrivers      int
	AlertsToday        int
	AlertsTrend        Delta // today against yesterday
	ActiveVehicles     int
	AverageSafetyScore float64
	AlertsByType       map[string]int
	RecentAlerts       []dataset.Alert
	TopActiveDrivers   []dataset.Driver

	WeeklyAlerts []DailyAlerts
	TypeShares   []TypeShare
	DriverGrowth []GrowthPoint
}

// AdminSummary aggregates the fleet dataset as of now.
func AdminSummary(p *dataset.Provider, now time.Time) Admin {
	drivers := p.Drivers()
	alerts := p.Alerts()
	alertTime := func(a dataset.Alert) time.Time { return a.Timestamp }
	isActive := func(d dataset.Driver) bool { return d.Status == dataset.DriverActive }

	today := CountOnDay(alerts, alertTime, now)
	yesterday := CountOnDay(alerts, alertTime, now.AddDate(0, 0, -1))

	active := make([]dataset.Driver, 0, recentLimit)
	for _, d := range drivers {
		if len(active) == recentLimit {
			break
		}
		if isActive(d) {
			active = append(active, d)
		}
	}

	return Admin{
		TotalDrivers:       len(drivers),
		ActiveDrivers:      CountWhere(drivers, isActive),
		AlertsToday:        today,
		AlertsTrend:        Trend(float64(today), float64(yesterday)),
		ActiveVehicles:     ActiveVehicles,
		AverageSafetyScore: AverageInt(drivers, func(d dataset.Driver) int { return d.SafetyScore }),
		AlertsByType:       CountByKey(alerts, func(a dataset.Alert) string { return string(a.Type) }),
		RecentAlerts:       head(alerts, recentLimit),
		TopActiveDrivers:   active,
		WeeklyAlerts:       WeeklyFleetAlerts(),
		TypeShares:         FleetTypeShares(),
		DriverGrowth:       FleetGrowth(),
	}
}

// Driver is the personal overview on the driver dashboard.
type Driver struct {
	SafetyScore    int
	TripsToday     int
	TripsTrend     Delta // today against yesterday
	AlertsThisWeek int
	HoursThisWeek  float64
	RecentTrips    []dataset.Trip
	RecentAlerts   []dataset.UserAlert
	Upcoming       []UpcomingTrip
	ScoreHistory   []ScorePoint
	AlertHistory   []DailyAlerts
}

// DriverSummary aggregates the driver's own trips and alerts as of now.
func DriverSummary(p *dataset.Provider, now time.Time) Driver {
	trips := p.Trips()
	alerts := p.UserAlerts()
	tripTime := func(t dataset.Trip) time.Time { return t.Date }

	today := CountOnDay(trips, tripTime, now)
	yesterday := CountOnDay(trips, tripTime, now.AddDate(0, 0, -1))

	return Driver{
		SafetyScore:    DriverSafetyScore,
		TripsToday:     today,
		TripsTrend:     Trend(float64(today), float64(yesterday)),
		AlertsThisWeek: CountSince(alerts, func(a dataset.UserAlert) time.Time { return a.Timestamp }, weekAgo(now)),
		HoursThisWeek:  DriverHoursThisWeek,
		RecentTrips:    head(trips, recentLimit),
		RecentAlerts:   head(alerts, recentAlertsLimit),
		Upcoming:       UpcomingTrips(now),
		ScoreHistory:   SafetyScoreHistory(),
		AlertHistory:   WeeklyDriverAlerts(),
	}
}

// Trips holds the cards above the trip list.
type Trips struct {
	Total         int
	TotalDistance float64 // kilometers, one decimal
	ThisWeek      int
}

// TripSummary aggregates trips as of now.
func TripSummary(trips []dataset.Trip, now time.Time) Trips {
	return Trips{
		Total:         len(trips),
		TotalDistance: TotalDistance(trips),
		ThisWeek:      CountSince(trips, func(t dataset.Trip) time.Time { return t.Date }, weekAgo(now)),
	}
}

// TotalDistance sums trip distances in kilometers. Distances that do not
// parse count as zero.
func TotalDistance(trips []dataset.Trip) float64 {
	return SumUnits(trips, func(t dataset.Trip) float64 { return listview.Kilometers(t.Distance) })
}

// Alerts holds the per-type cards above the driver's alert list.
type Alerts struct {
	Total      int
	Drowsy     int
	Distracted int
	Drunk      int
}

// AlertSummary counts user alerts by type.
func AlertSummary(alerts []dataset.UserAlert) Alerts {
	counts := CountByKey(alerts, func(a dataset.UserAlert) string { return string(a.Type) })
	return Alerts{
		Total:      len(alerts),
		Drowsy:     counts[string(dataset.AlertDrowsy)],
		Distracted: counts[string(dataset.AlertDistracted)],
		Drunk:      counts[string(dataset.AlertDrunk)],
	}
}

func weekAgo(now time.Time) time.Time { return now.AddDate(0, 0, -7) }

func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	return append([]T(nil), items[:n]...)
}
