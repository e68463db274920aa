package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/services/dashboard/preferences"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

// SettingsView is the admin settings form state.
type SettingsView struct {
	Settings preferences.Settings
	Errors   map[string]string
	Notice   string
}

// SettingsPage renders the detection thresholds and notification toggles.
func SettingsPage(view SettingsView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.component(ctx, PageHeader(T(loc, "Settings"), T(loc, "Detection and notification preferences")))
		h.component(ctx, Notice("success", view.Notice))
		h.raw(`<form method="post" class="form card"`)
		h.attr("action", routepath.AdminSettings)
		h.raw(">")
		h.element("h2", "", T(loc, "Detection Thresholds"))
		s := view.Settings
		rangeField(h, loc, "drowsinessThreshold", "Drowsiness Sensitivity", s.DrowsinessThreshold, view.Errors)
		rangeField(h, loc, "drunkThreshold", "Drunk Detection Sensitivity", s.DrunkThreshold, view.Errors)
		rangeField(h, loc, "distractionThreshold", "Distraction Sensitivity", s.DistractionThreshold, view.Errors)
		h.element("h2", "", T(loc, "Notifications"))
		checkbox(h, loc, "emailNotifications", "Email notifications", s.EmailNotifications)
		checkbox(h, loc, "smsNotifications", "SMS notifications", s.SMSNotifications)
		checkbox(h, loc, "pushNotifications", "Push notifications", s.PushNotifications)
		checkbox(h, loc, "driverReports", "Weekly driver reports", s.DriverReports)
		h.element("h2", "", T(loc, "API Access"))
		h.raw(`<p><code>`)
		h.text(preferences.APIKeyPreview)
		h.raw(`</code></p><button type="submit" class="button primary">`)
		h.text(T(loc, "Save changes"))
		h.raw("</button></form>")
	})
}

// ProfileView is the driver profile form state.
type ProfileView struct {
	Identity session.Identity
	Profile  preferences.Profile
	Errors   map[string]string
	Notice   string
}

// ProfilePage renders the driver's account and license details.
func ProfilePage(view ProfileView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.component(ctx, PageHeader(T(loc, "Profile"), T(loc, "Manage your personal information")))
		h.component(ctx, Notice("success", view.Notice))
		h.raw(`<section class="card profile">`)
		if view.Identity.Avatar != "" {
			h.raw(`<img class="avatar large" alt=""`)
			h.attr("src", view.Identity.Avatar)
			h.raw(">")
		}
		h.element("h2", "", view.Identity.Name)
		h.element("p", "muted", view.Identity.Email)
		h.raw(`</section><form method="post" class="form card"`)
		h.attr("action", routepath.Profile)
		h.raw(">")
		p := view.Profile
		field(h, loc, "phone", "Phone", "tel", p.Phone, view.Errors["phone"])
		field(h, loc, "address", "Address", "text", p.Address, view.Errors["address"])
		field(h, loc, "emergencyContact", "Emergency contact", "text", p.EmergencyContact, view.Errors["emergencyContact"])
		field(h, loc, "emergencyPhone", "Emergency phone", "tel", p.EmergencyPhone, view.Errors["emergencyPhone"])
		field(h, loc, "licenseNumber", "License number", "text", p.LicenseNumber, view.Errors["licenseNumber"])
		field(h, loc, "licenseExpiry", "License expiry", "date", p.LicenseExpiry, view.Errors["licenseExpiry"])
		h.raw(`<button type="submit" class="button primary">`)
		h.text(T(loc, "Save changes"))
		h.raw("</button></form>")
	})
}

func rangeField(h *html, loc Localizer, name, label string, value int, errs map[string]string) {
	h.raw(`<label class="field"><span>`)
	h.text(T(loc, label))
	h.raw(`</span><input type="range" min="0" max="100"`)
	h.attr("name", name)
	h.attr("value", strconv.Itoa(value))
	h.raw("><output>")
	h.int(value)
	h.raw("%</output></label>")
	fieldError(h, errs[name])
}

func checkbox(h *html, loc Localizer, name, label string, checked bool) {
	h.raw(`<label class="checkbox"><input type="checkbox" value="on"`)
	h.attr("name", name)
	if checked {
		h.raw(" checked")
	}
	h.raw("> ")
	h.text(T(loc, label))
	h.raw("</label>")
}
