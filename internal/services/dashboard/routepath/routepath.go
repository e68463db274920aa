// Package routepath defines the dashboard's URL paths.
package routepath

const (
	Root     = "/"
	Login    = "/login"
	Logout   = "/logout"
	Register = "/register"
	Health   = "/healthz"
	Metrics  = "/metrics"
	Static   = "/static/"

	Admin          = "/admin"
	AdminPrefix    = "/admin/"
	AdminDashboard = "/admin/dashboard"
	AdminDrivers   = "/admin/drivers"
	AdminAlerts    = "/admin/alerts"
	AdminSettings  = "/admin/settings"

	Dashboard = "/dashboard"
	Profile   = "/profile"
	Alerts    = "/alerts"
	Trips     = "/trips"

	LiveDetection        = "/live-detection"
	LiveDetectionPrefix  = "/live-detection/"
	LiveDetectionStart   = "/live-detection/start"
	LiveDetectionStop    = "/live-detection/stop"
	LiveDetectionCurrent = "/live-detection/current"
	LiveDetectionStream  = "/live-detection/stream"
)

// WithQuery appends an encoded query string to path.
func WithQuery(path, encoded string) string {
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
