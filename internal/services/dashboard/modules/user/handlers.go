package user

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/access"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/listview"
	"github.com/safedrive/dashboard/internal/services/dashboard/metrics"
	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/modules/listpage"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/pagerender"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/weberror"
	"github.com/safedrive/dashboard/internal/services/dashboard/preferences"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
	"go.uber.org/zap"
)

type handlers struct {
	deps   module.Dependencies
	logger *zap.Logger
	alerts listpage.Page[dataset.UserAlert]
	trips  listpage.Page[dataset.Trip]
}

func newHandlers(deps module.Dependencies) handlers {
	logger := deps.Log()
	return handlers{
		deps:   deps,
		logger: logger,
		alerts: alertsPage(deps, logger),
		trips:  tripsPage(deps, logger),
	}
}

func alertsPage(deps module.Dependencies, logger *zap.Logger) listpage.Page[dataset.UserAlert] {
	view := listview.DriverAlerts()
	return listpage.Page[dataset.UserAlert]{
		Title:    "My Alerts",
		Subtitle: "Your detection history",
		Path:     routepath.Alerts,
		View:     view,
		Items:    deps.Dataset.UserAlerts,
		Now:      deps.Clock(),
		Logger:   logger,
		Summary: func(loc templates.Localizer) templ.Component {
			s := metrics.AlertSummary(deps.Dataset.UserAlerts())
			return templates.Stats([]templates.Stat{
				{Label: "Total Alerts", Value: strconv.Itoa(s.Total)},
				{Label: templates.AlertLabel(loc, templates.AudienceUser, dataset.AlertDrowsy), Value: strconv.Itoa(s.Drowsy)},
				{Label: templates.AlertLabel(loc, templates.AudienceUser, dataset.AlertDistracted), Value: strconv.Itoa(s.Distracted)},
				{Label: templates.AlertLabel(loc, templates.AudienceUser, dataset.AlertDrunk), Value: strconv.Itoa(s.Drunk)},
			}, loc)
		},
		Table: func(loc templates.Localizer) templates.ListTable {
			return templates.ListTable{
				SearchPlaceholder: "Search by location or details...",
				CategoryLabel:     "Alert type",
				Categories:        templates.AlertTypeOptions(loc, templates.AudienceUser),
				Dates:             templates.DateOptions(loc, view.DateRanges),
				Columns: []templates.Column{
					{Key: "type", Label: "Alert Type", Sortable: true},
					{Key: "timestamp", Label: "Time", Sortable: true},
					{Key: "location", Label: "Location"},
					{Key: "duration", Label: "Duration", Sortable: true},
					{Key: "details", Label: "Details"},
				},
			}
		},
		Row: func(loc templates.Localizer, a dataset.UserAlert) []templates.Cell {
			return []templates.Cell{
				{Text: templates.AlertLabel(loc, templates.AudienceUser, a.Type), Class: templates.AlertBadgeClass(a.Type)},
				{Text: a.Timestamp.Format(templates.DateTimeLayout)},
				{Text: a.Location},
				{Text: a.Duration},
				{Text: a.Details},
			}
		},
	}
}

func tripsPage(deps module.Dependencies, logger *zap.Logger) listpage.Page[dataset.Trip] {
	view := listview.Trips()
	now := deps.Clock()
	return listpage.Page[dataset.Trip]{
		Title:    "My Trips",
		Subtitle: "Your trip history",
		Path:     routepath.Trips,
		View:     view,
		Items:    deps.Dataset.Trips,
		Now:      now,
		Logger:   logger,
		Summary: func(loc templates.Localizer) templ.Component {
			s := metrics.TripSummary(deps.Dataset.Trips(), now())
			return templates.Stats([]templates.Stat{
				{Label: "Total Trips", Value: strconv.Itoa(s.Total)},
				{Label: "Total Distance", Value: fmt.Sprintf("%.1f km", s.TotalDistance)},
				{Label: "This Week", Value: strconv.Itoa(s.ThisWeek)},
			}, loc)
		},
		Table: func(loc templates.Localizer) templates.ListTable {
			return templates.ListTable{
				SearchPlaceholder: "Search trips...",
				Dates:             templates.DateOptions(loc, view.DateRanges),
				Columns: []templates.Column{
					{Key: "name", Label: "Trip", Sortable: true},
					{Key: "date", Label: "Date", Sortable: true},
					{Key: "route", Label: "Route"},
					{Key: "distance", Label: "Distance", Sortable: true},
					{Key: "duration", Label: "Duration"},
					{Key: "safetyScore", Label: "Safety Score"},
				},
			}
		},
		Row: func(_ templates.Localizer, t dataset.Trip) []templates.Cell {
			return []templates.Cell{
				{Text: t.Name},
				{Text: t.Date.Format(templates.DateTimeLayout)},
				{Text: t.From + " → " + t.To},
				{Text: t.Distance},
				{Text: t.Duration},
				{Text: strconv.Itoa(t.SafetyScore), Class: templates.ScoreClass(t.SafetyScore)},
			}
		},
	}
}

func (h handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	loc := pagerender.Localizer(r)
	summary := metrics.DriverSummary(h.deps.Dataset, h.deps.Clock()())
	h.write(w, r, pagerender.Page{
		Title:    templates.T(loc, "Dashboard"),
		Fragment: templates.DriverDashboard(identity(r).Name, summary, loc),
	})
}

func (h handlers) handleProfile(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.deps.ResolvePreferences(r)
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	profile, err := prefs.Profile(r.Context())
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	h.writeProfile(w, r, http.StatusOK, templates.ProfileView{Identity: identity(r), Profile: profile})
}

func (h handlers) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		weberror.Write(w, r, h.logger, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse profile form", err))
		return
	}
	prefs, err := h.deps.ResolvePreferences(r)
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	form := func(name string) string { return strings.TrimSpace(r.PostFormValue(name)) }
	profile := preferences.Profile{
		Phone:            form("phone"),
		Address:          form("address"),
		EmergencyContact: form("emergencyContact"),
		EmergencyPhone:   form("emergencyPhone"),
		LicenseNumber:    form("licenseNumber"),
		LicenseExpiry:    form("licenseExpiry"),
	}
	view := templates.ProfileView{Identity: identity(r), Profile: profile}
	if err := prefs.SaveProfile(r.Context(), profile); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeValidationFailed {
			view.Errors = apperrors.MetadataOf(err)
			h.writeProfile(w, r, http.StatusUnprocessableEntity, view)
			return
		}
		weberror.Write(w, r, h.logger, err)
		return
	}
	view.Notice = templates.T(pagerender.Localizer(r), i18n.KeySaved)
	h.writeProfile(w, r, http.StatusOK, view)
}

// identity returns the signed-in identity attached by the access guard.
func identity(r *http.Request) session.Identity {
	store, ok := access.StoreFromContext(r.Context())
	if !ok {
		return session.Identity{}
	}
	id, _ := store.Identity()
	return id
}

func (h handlers) writeProfile(w http.ResponseWriter, r *http.Request, status int, view templates.ProfileView) {
	loc := pagerender.Localizer(r)
	h.write(w, r, pagerender.Page{
		Title:      templates.T(loc, "Profile"),
		StatusCode: status,
		Fragment:   templates.ProfilePage(view, loc),
	})
}

func (h handlers) write(w http.ResponseWriter, r *http.Request, page pagerender.Page) {
	if err := pagerender.Write(w, r, page); err != nil {
		h.logger.Warn("render page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
