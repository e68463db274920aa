// Package dataset provides the read-only driver, alert and trip collections
// rendered by the dashboard.
package dataset

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"
)

// TimestampLayout is the zone-less layout used by the fixtures.
const TimestampLayout = "2006-01-02T15:04:05"

// AlertType classifies a detection alert.
type AlertType string

const (
	AlertDrowsy     AlertType = "drowsy"
	AlertDistracted AlertType = "distracted"
	AlertDrunk      AlertType = "drunk"
)

// AlertTypes lists every alert type in display order.
var AlertTypes = []AlertType{AlertDrowsy, AlertDistracted, AlertDrunk}

// Valid reports whether t is a known alert type.
func (t AlertType) Valid() bool {
	switch t {
	case AlertDrowsy, AlertDistracted, AlertDrunk:
		return true
	}
	return false
}

// DriverStatus is the account state of a fleet driver.
type DriverStatus string

const (
	DriverActive    DriverStatus = "active"
	DriverInactive  DriverStatus = "inactive"
	DriverSuspended DriverStatus = "suspended"
)

// DriverStatuses lists every driver status in display order.
var DriverStatuses = []DriverStatus{DriverActive, DriverInactive, DriverSuspended}

// Valid reports whether s is a known driver status.
func (s DriverStatus) Valid() bool {
	switch s {
	case DriverActive, DriverInactive, DriverSuspended:
		return true
	}
	return false
}

// Driver is a fleet driver.
type Driver struct {
	ID           string
	Name         string
	Email        string
	Avatar       string
	Vehicle      string
	LicensePlate string
	Status       DriverStatus
	SafetyScore  int
	LastTrip     time.Time
}

// Alert is a fleet-wide detection alert. DriverName and VehicleID are
// denormalized copies, not a strict reference into the driver list.
type Alert struct {
	ID         string
	DriverName string
	DriverID   string
	VehicleID  string
	Type       AlertType
	Timestamp  time.Time
	Location   string
	Duration   string
}

// UserAlert is an alert raised for the signed-in driver.
type UserAlert struct {
	ID        string
	Type      AlertType
	Timestamp time.Time
	Location  string
	Duration  string
	Details   string
}

// Trip is one trip of the signed-in driver.
type Trip struct {
	ID          string
	Name        string
	Date        time.Time
	From        string
	To          string
	Distance    string
	Duration    string
	SafetyScore int
}

//go:embed fixtures/*.json
var fixtureFS embed.FS

// Options controls how fixtures are loaded.
type Options struct {
	// Location interprets the zone-less fixture timestamps. Nil means time.Local.
	Location *time.Location
	// RebaseTo, when non-zero, shifts every timestamp by whole days so the
	// newest fixture date lands on RebaseTo's calendar date.
	RebaseTo time.Time
}

// Provider exposes immutable collections. Accessors return copies.
type Provider struct {
	drivers    []Driver
	alerts     []Alert
	trips      []Trip
	userAlerts []UserAlert
}

// Load reads the embedded fixtures.
func Load(opts Options) (*Provider, error) {
	return LoadFS(fixtureFS, opts)
}

// LoadFS reads fixtures from fsys, which must contain fixtures/{drivers,
// alerts,trips,user_alerts}.json.
func LoadFS(fsys fs.FS, opts Options) (*Provider, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	p := &Provider{}
	if err := loadDrivers(fsys, loc, p); err != nil {
		return nil, err
	}
	if err := loadAlerts(fsys, loc, p); err != nil {
		return nil, err
	}
	if err := loadTrips(fsys, loc, p); err != nil {
		return nil, err
	}
	if err := loadUserAlerts(fsys, loc, p); err != nil {
		return nil, err
	}
	if !opts.RebaseTo.IsZero() {
		p.rebase(opts.RebaseTo.In(loc))
	}
	return p, nil
}

// New builds a provider from in-memory collections.
func New(drivers []Driver, alerts []Alert, trips []Trip, userAlerts []UserAlert) *Provider {
	return &Provider{
		drivers:    append([]Driver(nil), drivers...),
		alerts:     append([]Alert(nil), alerts...),
		trips:      append([]Trip(nil), trips...),
		userAlerts: append([]UserAlert(nil), userAlerts...),
	}
}

// Drivers returns the fleet drivers in fixture order.
func (p *Provider) Drivers() []Driver { return append([]Driver(nil), p.drivers...) }

// Alerts returns the fleet alerts in fixture order.
func (p *Provider) Alerts() []Alert { return append([]Alert(nil), p.alerts...) }

// Trips returns the driver's trips in fixture order.
func (p *Provider) Trips() []Trip { return append([]Trip(nil), p.trips...) }

// UserAlerts returns the driver's alerts in fixture order.
func (p *Provider) UserAlerts() []UserAlert { return append([]UserAlert(nil), p.userAlerts...) }

func (p *Provider) rebase(target time.Time) {
	var latest time.Time
	observe := func(ts time.Time) {
		if ts.After(latest) {
			latest = ts
		}
	}
	for _, d := range p.drivers {
		observe(d.LastTrip)
	}
	for _, a := range p.alerts {
		observe(a.Timestamp)
	}
	for _, t := range p.trips {
		observe(t.Date)
	}
	for _, a := range p.userAlerts {
		observe(a.Timestamp)
	}
	if latest.IsZero() {
		return
	}
	days := daysBetween(latest, target)
	if days == 0 {
		return
	}
	for i := range p.drivers {
		p.drivers[i].LastTrip = p.drivers[i].LastTrip.AddDate(0, 0, days)
	}
	for i := range p.alerts {
		p.alerts[i].Timestamp = p.alerts[i].Timestamp.AddDate(0, 0, days)
	}
	for i := range p.trips {
		p.trips[i].Date = p.trips[i].Date.AddDate(0, 0, days)
	}
	for i := range p.userAlerts {
		p.userAlerts[i].Timestamp = p.userAlerts[i].Timestamp.AddDate(0, 0, days)
	}
}

// daysBetween counts calendar days from a to b in b's location.
func daysBetween(a, b time.Time) int {
	loc := b.Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 12, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 12, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

type driverRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatarUrl"`
	Vehicle      string `json:"vehicle"`
	LicensePlate string `json:"licensePlate"`
	Status       string `json:"status"`
	SafetyScore  int    `json:"safetyScore"`
	LastTrip     string `json:"lastTrip"`
}

type alertRecord struct {
	ID         string `json:"id"`
	DriverName string `json:"driverName"`
	DriverID   string `json:"driverId"`
	VehicleID  string `json:"vehicleId"`
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	Location   string `json:"location"`
	Duration   string `json:"duration"`
}

type tripRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	From        string `json:"from"`
	To          string `json:"to"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
	SafetyScore int    `json:"safetyScore"`
}

type userAlertRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Location  string `json:"location"`
	Duration  string `json:"duration"`
	Details   string `json:"details"`
}

func loadDrivers(fsys fs.FS, loc *time.Location, p *Provider) error {
	var records []driverRecord
	if err := readFixture(fsys, "drivers", &records); err != nil {
		return err
	}
	for _, r := range records {
		status := DriverStatus(r.Status)
		if !status.Valid() {
			return fmt.Errorf("driver %s: unknown status %q", r.ID, r.Status)
		}
		if err := checkScore(r.SafetyScore); err != nil {
			return fmt.Errorf("driver %s: %w", r.ID, err)
		}
		lastTrip, err := parseTimestamp(r.LastTrip, loc)
		if err != nil {
			return fmt.Errorf("driver %s: %w", r.ID, err)
		}
		p.drivers = append(p.drivers, Driver{
			ID:           r.ID,
			Name:         r.Name,
			Email:        r.Email,
			Avatar:       r.AvatarURL,
			Vehicle:      r.Vehicle,
			LicensePlate: r.LicensePlate,
			Status:       status,
			SafetyScore:  r.SafetyScore,
			LastTrip:     lastTrip,
		})
	}
	return nil
}

func loadAlerts(fsys fs.FS, loc *time.Location, p *Provider) error {
	var records []alertRecord
	if err := readFixture(fsys, "alerts", &records); err != nil {
		return err
	}
	for _, r := range records {
		alertType := AlertType(r.Type)
		if !alertType.Valid() {
			return fmt.Errorf("alert %s: unknown type %q", r.ID, r.Type)
		}
		ts, err := parseTimestamp(r.Timestamp, loc)
		if err != nil {
			return fmt.Errorf("alert %s: %w", r.ID, err)
		}
		p.alerts = append(p.alerts, Alert{
			ID:         r.ID,
			DriverName: r.DriverName,
			DriverID:   r.DriverID,
			VehicleID:  r.VehicleID,
			Type:       alertType,
			Timestamp:  ts,
			Location:   r.Location,
			Duration:   r.Duration,
		})
	}
	return nil
}

func loadTrips(fsys fs.FS, loc *time.Location, p *Provider) error {
	var records []tripRecord
	if err := readFixture(fsys, "trips", &records); err != nil {
		return err
	}
	for _, r := range records {
		if err := checkScore(r.SafetyScore); err != nil {
			return fmt.Errorf("trip %s: %w", r.ID, err)
		}
		date, err := parseTimestamp(r.Date, loc)
		if err != nil {
			return fmt.Errorf("trip %s: %w", r.ID, err)
		}
		p.trips = append(p.trips, Trip{
			ID:          r.ID,
			Name:        r.Name,
			Date:        date,
			From:        r.From,
			To:          r.To,
			Distance:    r.Distance,
			Duration:    r.Duration,
			SafetyScore: r.SafetyScore,
		})
	}
	return nil
}

func loadUserAlerts(fsys fs.FS, loc *time.Location, p *Provider) error {
	var records []userAlertRecord
	if err := readFixture(fsys, "user_alerts", &records); err != nil {
		return err
	}
	for _, r := range records {
		alertType := AlertType(r.Type)
		if !alertType.Valid() {
			return fmt.Errorf("user alert %s: unknown type %q", r.ID, r.Type)
		}
		ts, err := parseTimestamp(r.Timestamp, loc)
		if err != nil {
			return fmt.Errorf("user alert %s: %w", r.ID, err)
		}
		p.userAlerts = append(p.userAlerts, UserAlert{
			ID:        r.ID,
			Type:      alertType,
			Timestamp: ts,
			Location:  r.Location,
			Duration:  r.Duration,
			Details:   r.Details,
		})
	}
	return nil
}

func readFixture(fsys fs.FS, name string, target any) error {
	data, err := fs.ReadFile(fsys, "fixtures/"+name+".json")
	if err != nil {
		return fmt.Errorf("read %s fixture: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s fixture: %w", name, err)
	}
	return nil
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	ts, err := time.ParseInLocation(TimestampLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return ts, nil
}

func checkScore(score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("safety score %d outside [0,100]", score)
	}
	return nil
}
