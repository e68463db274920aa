package templates

import (
	"context"
	"fmt"
	"strconv"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/metrics"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
)

// Date and time layouts used across pages.
const (
	DateLayout     = "Jan 2, 2006"
	DateTimeLayout = "Jan 2, 2006 15:04"
	TimeLayout     = "15:04"
)

// Stat is one summary card.
type Stat struct {
	Label string
	Value string
	// Trend is rendered below the value when set.
	Trend *metrics.Delta
}

// Stats renders a row of summary cards.
func Stats(stats []Stat, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="stats">`)
		for _, s := range stats {
			h.raw(`<div class="card stat">`)
			h.element("span", "stat-label", T(loc, s.Label))
			h.element("strong", "stat-value", s.Value)
			if s.Trend != nil {
				class := "trend trend-down"
				if s.Trend.Up() {
					class = "trend trend-up"
				}
				h.element("span", class, TrendText(*s.Trend))
			}
			h.raw("</div>")
		}
		h.raw("</div>")
	})
}

// TrendText formats a delta as "+2 (+50.0%)".
func TrendText(d metrics.Delta) string {
	return fmt.Sprintf("%+g (%+.1f%%)", d.Change, d.Percent)
}

// AdminDashboard renders the fleet overview.
func AdminDashboard(summary metrics.Admin, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.component(ctx, PageHeader(T(loc, "Dashboard"), T(loc, "Fleet safety overview")))
		h.component(ctx, Stats([]Stat{
			{Label: "Total Drivers", Value: strconv.Itoa(summary.TotalDrivers)},
			{Label: "Active Drivers", Value: strconv.Itoa(summary.ActiveDrivers)},
			{Label: "Alerts Today", Value: strconv.Itoa(summary.AlertsToday), Trend: &summary.AlertsTrend},
			{Label: "Active Vehicles", Value: strconv.Itoa(summary.ActiveVehicles)},
			{Label: "Average Safety Score", Value: strconv.FormatFloat(summary.AverageSafetyScore, 'f', 1, 64)},
		}, loc))

		h.raw(`<div class="grid">`)
		h.raw(`<section class="card">`)
		h.element("h2", "", T(loc, "Alerts This Week"))
		weeklyAlerts(h, summary.WeeklyAlerts, AudienceAdmin, loc)
		h.raw(`</section><section class="card">`)
		h.element("h2", "", T(loc, "Alert Types"))
		h.raw(`<ul class="bars">`)
		for _, share := range summary.TypeShares {
			bar(h, AlertLabel(loc, AudienceAdmin, share.Type), share.Value, 100)
		}
		h.raw("</ul>")
		h.raw(`<p class="muted">`)
		for i, alertType := range dataset.AlertTypes {
			if i > 0 {
				h.raw(" &middot; ")
			}
			h.text(fmt.Sprintf("%s: %d", AlertLabel(loc, AudienceAdmin, alertType), summary.AlertsByType[string(alertType)]))
		}
		h.raw(`</p></section><section class="card">`)
		h.element("h2", "", T(loc, "Driver Growth"))
		h.raw(`<ul class="bars">`)
		maxDrivers := 0
		for _, p := range summary.DriverGrowth {
			maxDrivers = max(maxDrivers, p.Drivers)
		}
		for _, p := range summary.DriverGrowth {
			bar(h, p.Month, p.Drivers, maxDrivers)
		}
		h.raw("</ul></section></div>")

		h.raw(`<div class="grid">`)
		h.raw(`<section class="card">`)
		cardHeader(h, T(loc, "Recent Alerts"), routepath.AdminAlerts, loc)
		h.raw(`<ul class="feed">`)
		for _, a := range summary.RecentAlerts {
			h.raw("<li>")
			h.element("span", AlertBadgeClass(a.Type), AlertLabel(loc, AudienceAdmin, a.Type))
			h.element("strong", "", a.DriverName)
			h.element("span", "muted", a.Location+" · "+a.Timestamp.Format(DateTimeLayout))
			h.raw("</li>")
		}
		h.raw(`</ul></section><section class="card">`)
		cardHeader(h, T(loc, "Active Drivers"), routepath.AdminDrivers, loc)
		h.raw(`<ul class="feed">`)
		for _, d := range summary.TopActiveDrivers {
			h.raw("<li>")
			h.element("strong", "", d.Name)
			h.element("span", "muted", d.Vehicle+" · "+d.LicensePlate)
			h.element("span", ScoreClass(d.SafetyScore), strconv.Itoa(d.SafetyScore))
			h.raw("</li>")
		}
		h.raw("</ul></section></div>")
	})
}

// DriverDashboard renders the signed-in driver's overview.
func DriverDashboard(name string, summary metrics.Driver, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.component(ctx, PageHeader(T(loc, "Welcome back, %s", name), T(loc, "Your driving at a glance")))
		h.component(ctx, Stats([]Stat{
			{Label: "Safety Score", Value: strconv.Itoa(summary.SafetyScore)},
			{Label: "Trips Today", Value: strconv.Itoa(summary.TripsToday), Trend: &summary.TripsTrend},
			{Label: "Alerts This Week", Value: strconv.Itoa(summary.AlertsThisWeek)},
			{Label: "Hours This Week", Value: strconv.FormatFloat(summary.HoursThisWeek, 'f', 1, 64)},
		}, loc))

		h.raw(`<div class="grid"><section class="card">`)
		h.element("h2", "", T(loc, "Safety Score History"))
		h.raw(`<ul class="bars">`)
		for _, p := range summary.ScoreHistory {
			bar(h, p.Day, p.Score, 100)
		}
		h.raw(`</ul></section><section class="card">`)
		h.element("h2", "", T(loc, "Alerts This Week"))
		weeklyAlerts(h, summary.AlertHistory, AudienceUser, loc)
		h.raw("</section></div>")

		h.raw(`<div class="grid"><section class="card">`)
		cardHeader(h, T(loc, "Recent Trips"), routepath.Trips, loc)
		h.raw(`<ul class="feed">`)
		for _, trip := range summary.RecentTrips {
			h.raw("<li>")
			h.element("strong", "", trip.Name)
			h.element("span", "muted", trip.From+" → "+trip.To+" · "+trip.Distance)
			h.element("span", ScoreClass(trip.SafetyScore), strconv.Itoa(trip.SafetyScore))
			h.raw("</li>")
		}
		h.raw(`</ul></section><section class="card">`)
		cardHeader(h, T(loc, "Recent Alerts"), routepath.Alerts, loc)
		h.raw(`<ul class="feed">`)
		for _, a := range summary.RecentAlerts {
			h.raw("<li>")
			h.element("span", AlertBadgeClass(a.Type), AlertLabel(loc, AudienceUser, a.Type))
			h.element("span", "muted", a.Location+" · "+a.Timestamp.Format(DateTimeLayout))
			h.raw("</li>")
		}
		h.raw(`</ul></section><section class="card">`)
		h.element("h2", "", T(loc, "Upcoming Trips"))
		h.raw(`<ul class="feed">`)
		for _, trip := range summary.Upcoming {
			h.raw("<li>")
			h.element("strong", "", trip.Name)
			h.element("span", "muted", trip.Date.Format(DateTimeLayout)+" · "+trip.Duration)
			h.raw("</li>")
		}
		h.raw("</ul></section></div>")
	})
}

func cardHeader(h *html, title, viewAll string, loc Localizer) {
	h.raw(`<div class="card-header">`)
	h.element("h2", "", title)
	h.raw("<a")
	h.attr("href", viewAll)
	h.raw(">")
	h.text(T(loc, "View all"))
	h.raw("</a></div>")
}

func weeklyAlerts(h *html, days []metrics.DailyAlerts, audience Audience, loc Localizer) {
	h.raw(`<table class="table compact"><thead><tr>`)
	h.element("th", "", T(loc, "Day"))
	h.element("th", "", AlertLabel(loc, audience, dataset.AlertDrowsy))
	h.element("th", "", AlertLabel(loc, audience, dataset.AlertDistracted))
	h.element("th", "", AlertLabel(loc, audience, dataset.AlertDrunk))
	h.raw("</tr></thead><tbody>")
	for _, d := range days {
		h.raw("<tr>")
		h.element("td", "", d.Day)
		h.element("td", "", strconv.Itoa(d.Drowsy))
		h.element("td", "", strconv.Itoa(d.Distracted))
		h.element("td", "", strconv.Itoa(d.Drunk))
		h.raw("</tr>")
	}
	h.raw("</tbody></table>")
}

func bar(h *html, label string, value, scale int) {
	pct := 0
	if scale > 0 {
		pct = value * 100 / scale
	}
	h.raw("<li>")
	h.element("span", "bar-label", label)
	h.raw(`<span class="bar"`)
	h.attr("style", "width: "+strconv.Itoa(pct)+"%")
	h.raw("></span>")
	h.element("span", "bar-value", strconv.Itoa(value))
	h.raw("</li>")
}
