package listview

import (
	"time"

	"github.com/safedrive/dashboard/internal/platform/filter"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
)

func alertTypeValues() []string {
	values := make([]string, 0, len(dataset.AlertTypes))
	for _, t := range dataset.AlertTypes {
		values = append(values, string(t))
	}
	return values
}

func driverStatusValues() []string {
	values := make([]string, 0, len(dataset.DriverStatuses))
	for _, s := range dataset.DriverStatuses {
		values = append(values, string(s))
	}
	return values
}

func rfc3339(ts time.Time) string { return ts.Format(time.RFC3339) }

// FleetAlerts is the admin alert history view.
func FleetAlerts() View[dataset.Alert] {
	return View[dataset.Alert]{
		Name: "fleet-alerts",
		SearchFields: []func(dataset.Alert) string{
			func(a dataset.Alert) string { return a.DriverName },
			func(a dataset.Alert) string { return a.VehicleID },
		},
		Category:   func(a dataset.Alert) string { return string(a.Type) },
		Categories: alertTypeValues(),
		Timestamp:  func(a dataset.Alert) time.Time { return a.Timestamp },
		DateRanges: []DateRange{DateToday, DateYesterday, DateWeek},
		Sorts: map[string]Comparator[dataset.Alert]{
			"timestamp":  ByTime(func(a dataset.Alert) time.Time { return a.Timestamp }),
			"driverName": ByText(func(a dataset.Alert) string { return a.DriverName }),
			"type":       ByText(func(a dataset.Alert) string { return string(a.Type) }),
		},
		DefaultSort:       SortState{Key: "timestamp", Direction: Desc},
		DefaultDirections: map[string]Direction{"timestamp": Desc, "driverName": Desc, "type": Desc},
		FilterFields: filter.Fields{
			"driver_name": filter.FieldString,
			"vehicle_id":  filter.FieldString,
			"type":        filter.FieldString,
			"location":    filter.FieldString,
			"timestamp":   filter.FieldTimestamp,
		},
		Resolve: func(a dataset.Alert) filter.Resolver {
			return func(name string) (any, bool) {
				switch name {
				case "driver_name":
					return a.DriverName, true
				case "vehicle_id":
					return a.VehicleID, true
				case "type":
					return string(a.Type), true
				case "location":
					return a.Location, true
				case "timestamp":
					return rfc3339(a.Timestamp), true
				}
				return nil, false
			}
		},
	}
}

// Drivers is the admin driver management view.
func Drivers() View[dataset.Driver] {
	return View[dataset.Driver]{
		Name: "drivers",
		SearchFields: []func(dataset.Driver) string{
			func(d dataset.Driver) string { return d.Name },
			func(d dataset.Driver) string { return d.Email },
			func(d dataset.Driver) string { return d.Vehicle },
		},
		Category:   func(d dataset.Driver) string { return string(d.Status) },
		Categories: driverStatusValues(),
		Sorts: map[string]Comparator[dataset.Driver]{
			"name":        ByText(func(d dataset.Driver) string { return d.Name }),
			"safetyScore": ByInt(func(d dataset.Driver) int { return d.SafetyScore }),
			"lastTrip":    ByTime(func(d dataset.Driver) time.Time { return d.LastTrip }),
		},
		DefaultSort:       SortState{Key: "name", Direction: Asc},
		DefaultDirections: map[string]Direction{"name": Asc, "safetyScore": Asc, "lastTrip": Asc},
		FilterFields: filter.Fields{
			"name":          filter.FieldString,
			"email":         filter.FieldString,
			"vehicle":       filter.FieldString,
			"license_plate": filter.FieldString,
			"status":        filter.FieldString,
			"safety_score":  filter.FieldInt,
			"last_trip":     filter.FieldTimestamp,
		},
		Resolve: func(d dataset.Driver) filter.Resolver {
			return func(name string) (any, bool) {
				switch name {
				case "name":
					return d.Name, true
				case "email":
					return d.Email, true
				case "vehicle":
					return d.Vehicle, true
				case "license_plate":
					return d.LicensePlate, true
				case "status":
					return string(d.Status), true
				case "safety_score":
					return d.SafetyScore, true
				case "last_trip":
					return rfc3339(d.LastTrip), true
				}
				return nil, false
			}
		},
	}
}

// Trips is the driver trip history view.
func Trips() View[dataset.Trip] {
	return View[dataset.Trip]{
		Name: "trips",
		SearchFields: []func(dataset.Trip) string{
			func(t dataset.Trip) string { return t.Name },
			func(t dataset.Trip) string { return t.From },
			func(t dataset.Trip) string { return t.To },
		},
		Timestamp:  func(t dataset.Trip) time.Time { return t.Date },
		DateRanges: []DateRange{DateToday, DateYesterday, DateWeek, DateMonth},
		Sorts: map[string]Comparator[dataset.Trip]{
			"date":     ByTime(func(t dataset.Trip) time.Time { return t.Date }),
			"name":     ByText(func(t dataset.Trip) string { return t.Name }),
			"distance": ByNumberIn(Kilometers, func(t dataset.Trip) string { return t.Distance }),
		},
		DefaultSort:       SortState{Key: "date", Direction: Desc},
		DefaultDirections: map[string]Direction{"date": Desc, "name": Desc, "distance": Desc},
		FilterFields: filter.Fields{
			"name":         filter.FieldString,
			"from":         filter.FieldString,
			"to":           filter.FieldString,
			"distance_km":  filter.FieldFloat,
			"safety_score": filter.FieldInt,
			"date":         filter.FieldTimestamp,
		},
		Resolve: func(t dataset.Trip) filter.Resolver {
			return func(name string) (any, bool) {
				switch name {
				case "name":
					return t.Name, true
				case "from":
					return t.From, true
				case "to":
					return t.To, true
				case "distance_km":
					return Kilometers(t.Distance), true
				case "safety_score":
					return t.SafetyScore, true
				case "date":
					return rfc3339(t.Date), true
				}
				return nil, false
			}
		},
	}
}

// DriverAlerts is the signed-in driver's alert history view.
func DriverAlerts() View[dataset.UserAlert] {
	return View[dataset.UserAlert]{
		Name: "driver-alerts",
		SearchFields: []func(dataset.UserAlert) string{
			func(a dataset.UserAlert) string { return a.Location },
			func(a dataset.UserAlert) string { return a.Details },
		},
		Category:   func(a dataset.UserAlert) string { return string(a.Type) },
		Categories: alertTypeValues(),
		Timestamp:  func(a dataset.UserAlert) time.Time { return a.Timestamp },
		DateRanges: []DateRange{DateToday, DateYesterday, DateWeek, DateMonth},
		Sorts: map[string]Comparator[dataset.UserAlert]{
			"timestamp": ByTime(func(a dataset.UserAlert) time.Time { return a.Timestamp }),
			"type":      ByText(func(a dataset.UserAlert) string { return string(a.Type) }),
			"duration":  ByNumberIn(Minutes, func(a dataset.UserAlert) string { return a.Duration }),
		},
		DefaultSort:       SortState{Key: "timestamp", Direction: Desc},
		DefaultDirections: map[string]Direction{"timestamp": Desc, "type": Desc, "duration": Desc},
		FilterFields: filter.Fields{
			"type":      filter.FieldString,
			"location":  filter.FieldString,
			"details":   filter.FieldString,
			"timestamp": filter.FieldTimestamp,
		},
		Resolve: func(a dataset.UserAlert) filter.Resolver {
			return func(name string) (any, bool) {
				switch name {
				case "type":
					return string(a.Type), true
				case "location":
					return a.Location, true
				case "details":
					return a.Details, true
				case "timestamp":
					return rfc3339(a.Timestamp), true
				}
				return nil, false
			}
		},
	}
}
