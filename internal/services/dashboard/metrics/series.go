package metrics

import (
	"time"

	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
)

// WeeklyFleetAlerts is the fleet alert volume per weekday.
func WeeklyFleetAlerts() []DailyAlerts {
	return []DailyAlerts{
		{Day: "Mon", Drowsy: 5, Drunk: 2, Distracted: 8},
		{Day: "Tue", Drowsy: 7, Drunk: 1, Distracted: 10},
		{Day: "Wed", Drowsy: 4, Drunk: 3, Distracted: 7},
		{Day: "Thu", Drowsy: 6, Drunk: 2, Distracted: 9},
		{Day: "Fri", Drowsy: 8, Drunk: 4, Distracted: 11},
		{Day: "Sat", Drowsy: 3, Drunk: 5, Distracted: 6},
		{Day: "Sun", Drowsy: 2, Drunk: 1, Distracted: 4},
	}
}

// FleetTypeShares is the long-run distribution of fleet alerts by type.
func FleetTypeShares() []TypeShare {
	return []TypeShare{
		{Type: dataset.AlertDrowsy, Value: 35},
		{Type: dataset.AlertDrunk, Value: 18},
		{Type: dataset.AlertDistracted, Value: 55},
	}
}

// FleetGrowth is the registered driver count per month.
func FleetGrowth() []GrowthPoint {
	return []GrowthPoint{
		{Month: "Jan", Drivers: 32},
		{Month: "Feb", Drivers: 40},
		{Month: "Mar", Drivers: 45},
		{Month: "Apr", Drivers: 50},
		{Month: "May", Drivers: 58},
		{Month: "Jun", Drivers: 65},
		{Month: "Jul", Drivers: 68},
	}
}

// SafetyScoreHistory is the driver's score per weekday.
func SafetyScoreHistory() []ScorePoint {
	return []ScorePoint{
		{Day: "Mon", Score: 82},
		{Day: "Tue", Score: 85},
		{Day: "Wed", Score: 80},
		{Day: "Thu", Score: 78},
		{Day: "Fri", Score: 84},
		{Day: "Sat", Score: 88},
		{Day: "Sun", Score: 87},
	}
}

// WeeklyDriverAlerts is the driver's alert count per weekday.
func WeeklyDriverAlerts() []DailyAlerts {
	return []DailyAlerts{
		{Day: "Mon", Drowsy: 1, Distracted: 2},
		{Day: "Tue", Drowsy: 0, Distracted: 1},
		{Day: "Wed", Drowsy: 2, Distracted: 0},
		{Day: "Thu", Drowsy: 0, Distracted: 0},
		{Day: "Fri", Drowsy: 1, Distracted: 1},
		{Day: "Sat", Drowsy: 0, Distracted: 0},
		{Day: "Sun", Drowsy: 0, Distracted: 0},
	}
}

// UpcomingTrips schedules the driver's next trips relative to now.
func UpcomingTrips(now time.Time) []UpcomingTrip {
	at := func(days, hour, minute int) time.Time {
		y, m, d := now.Date()
		return time.Date(y, m, d+days, hour, minute, 0, 0, now.Location())
	}
	return []UpcomingTrip{
		{ID: "1", Name: "City Delivery", Date: at(2, 9, 0), Duration: "4 hours"},
		{ID: "2", Name: "Airport Pickup", Date: at(3, 14, 30), Duration: "2.5 hours"},
		{ID: "3", Name: "Interstate Transport", Date: at(5, 8, 0), Duration: "8 hours"},
	}
}
