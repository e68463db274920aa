package admin

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/listview"
	"github.com/safedrive/dashboard/internal/services/dashboard/metrics"
	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/modules/listpage"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/pagerender"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/weberror"
	"github.com/safedrive/dashboard/internal/services/dashboard/preferences"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
	"go.uber.org/zap"
)

type handlers struct {
	deps    module.Dependencies
	logger  *zap.Logger
	drivers listpage.Page[dataset.Driver]
	alerts  listpage.Page[dataset.Alert]
}

func newHandlers(deps module.Dependencies) handlers {
	logger := deps.Log()
	return handlers{
		deps:    deps,
		logger:  logger,
		drivers: driversPage(deps, logger),
		alerts:  alertsPage(deps, logger),
	}
}

func driversPage(deps module.Dependencies, logger *zap.Logger) listpage.Page[dataset.Driver] {
	view := listview.Drivers()
	return listpage.Page[dataset.Driver]{
		Title:    "Drivers",
		Subtitle: "Manage your fleet drivers",
		Path:     routepath.AdminDrivers,
		View:     view,
		Items:    deps.Dataset.Drivers,
		Now:      deps.Clock(),
		Logger:   logger,
		Table: func(loc templates.Localizer) templates.ListTable {
			return templates.ListTable{
				SearchPlaceholder: "Search drivers...",
				CategoryLabel:     "Status",
				Categories:        templates.StatusOptions(loc),
				Columns: []templates.Column{
					{Key: "name", Label: "Driver", Sortable: true},
					{Key: "vehicle", Label: "Vehicle"},
					{Key: "status", Label: "Status"},
					{Key: "safetyScore", Label: "Safety Score", Sortable: true},
					{Key: "lastTrip", Label: "Last Trip", Sortable: true},
				},
			}
		},
		Row: func(loc templates.Localizer, d dataset.Driver) []templates.Cell {
			return []templates.Cell{
				{Text: d.Name + " <" + d.Email + ">"},
				{Text: d.Vehicle + " · " + d.LicensePlate},
				{Text: templates.StatusLabel(loc, d.Status), Class: templates.StatusBadgeClass(d.Status)},
				{Text: strconv.Itoa(d.SafetyScore), Class: templates.ScoreClass(d.SafetyScore)},
				{Text: d.LastTrip.Format(templates.DateTimeLayout)},
			}
		},
	}
}

func alertsPage(deps module.Dependencies, logger *zap.Logger) listpage.Page[dataset.Alert] {
	view := listview.FleetAlerts()
	return listpage.Page[dataset.Alert]{
		Title:    "Alerts",
		Subtitle: "Fleet alert history",
		Path:     routepath.AdminAlerts,
		View:     view,
		Items:    deps.Dataset.Alerts,
		Now:      deps.Clock(),
		Logger:   logger,
		Table: func(loc templates.Localizer) templates.ListTable {
			return templates.ListTable{
				SearchPlaceholder: "Search by driver or vehicle...",
				CategoryLabel:     "Alert type",
				Categories:        templates.AlertTypeOptions(loc, templates.AudienceAdmin),
				Dates:             templates.DateOptions(loc, view.DateRanges),
				Columns: []templates.Column{
					{Key: "driverName", Label: "Driver", Sortable: true},
					{Key: "vehicleId", Label: "Vehicle"},
					{Key: "type", Label: "Alert Type", Sortable: true},
					{Key: "timestamp", Label: "Time", Sortable: true},
					{Key: "location", Label: "Location"},
					{Key: "duration", Label: "Duration"},
				},
			}
		},
		Row: func(loc templates.Localizer, a dataset.Alert) []templates.Cell {
			return []templates.Cell{
				{Text: a.DriverName},
				{Text: a.VehicleID},
				{Text: templates.AlertLabel(loc, templates.AudienceAdmin, a.Type), Class: templates.AlertBadgeClass(a.Type)},
				{Text: a.Timestamp.Format(templates.DateTimeLayout)},
				{Text: a.Location},
				{Text: a.Duration},
			}
		},
	}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	httpx.WriteRedirect(w, r, routepath.AdminDashboard)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.NotFound(w, r)
}

func (h handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	loc := pagerender.Localizer(r)
	summary := metrics.AdminSummary(h.deps.Dataset, h.deps.Clock()())
	h.write(w, r, pagerender.Page{
		Title:    templates.T(loc, "Dashboard"),
		Fragment: templates.AdminDashboard(summary, loc),
	})
}

func (h handlers) handleSettings(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.deps.ResolvePreferences(r)
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	settings, err := prefs.Settings(r.Context())
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	h.writeSettings(w, r, http.StatusOK, templates.SettingsView{Settings: settings})
}

func (h handlers) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		weberror.Write(w, r, h.logger, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse settings form", err))
		return
	}
	prefs, err := h.deps.ResolvePreferences(r)
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	settings, fieldErrs := parseSettings(r)
	if len(fieldErrs) > 0 {
		h.writeSettings(w, r, http.StatusUnprocessableEntity, templates.SettingsView{Settings: settings, Errors: fieldErrs})
		return
	}
	if err := prefs.SaveSettings(r.Context(), settings); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeValidationFailed {
			h.writeSettings(w, r, http.StatusUnprocessableEntity, templates.SettingsView{
				Settings: settings,
				Errors:   apperrors.MetadataOf(err),
			})
			return
		}
		weberror.Write(w, r, h.logger, err)
		return
	}
	h.writeSettings(w, r, http.StatusOK, templates.SettingsView{
		Settings: settings,
		Notice:   templates.T(pagerender.Localizer(r), i18n.KeySaved),
	})
}

// parseSettings reads the settings form. Unchecked boxes are absent from
// the form and read as false.
func parseSettings(r *http.Request) (preferences.Settings, map[string]string) {
	var settings preferences.Settings
	errs := map[string]string{}
	threshold := func(name string, target *int) {
		raw := strings.TrimSpace(r.PostFormValue(name))
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs[name] = "Enter a whole number"
			return
		}
		*target = v
	}
	threshold("drowsinessThreshold", &settings.DrowsinessThreshold)
	threshold("drunkThreshold", &settings.DrunkThreshold)
	threshold("distractionThreshold", &settings.DistractionThreshold)
	checked := func(name string) bool { return r.PostFormValue(name) != "" }
	settings.EmailNotifications = checked("emailNotifications")
	settings.SMSNotifications = checked("smsNotifications")
	settings.PushNotifications = checked("pushNotifications")
	settings.DriverReports = checked("driverReports")
	return settings, errs
}

func (h handlers) writeSettings(w http.ResponseWriter, r *http.Request, status int, view templates.SettingsView) {
	loc := pagerender.Localizer(r)
	h.write(w, r, pagerender.Page{
		Title:      templates.T(loc, "Settings"),
		StatusCode: status,
		Fragment:   templates.SettingsPage(view, loc),
	})
}

func (h handlers) write(w http.ResponseWriter, r *http.Request, page pagerender.Page) {
	if err := pagerender.Write(w, r, page); err != nil {
		h.logger.Warn("render page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
