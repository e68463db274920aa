package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/detection"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
)

// LiveDetectionPage renders the simulator controls and the current alert.
func LiveDetectionPage(status detection.Status, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.component(ctx, PageHeader(T(loc, "Live Detection"), T(loc, "Real-time driver monitoring")))
		h.raw(`<section class="card live"`)
		h.attr("data-stream", routepath.LiveDetectionStream)
		h.attr("data-state", string(status.State))
		h.raw(`><div class="camera"><div id="live-alert" class="live-alert" aria-live="assertive">`)
		h.component(ctx, LiveAlert(status, loc))
		h.raw(`</div></div><p id="live-state" class="muted">`)
		if status.State == detection.Active {
			h.text(T(loc, i18n.KeyDetectionActive))
		} else {
			h.text(T(loc, i18n.KeyDetectionIdle))
		}
		h.raw("</p>")
		action, label, class := routepath.LiveDetectionStart, "Start Detection", "button primary"
		if status.State == detection.Active {
			action, label, class = routepath.LiveDetectionStop, "Stop Detection", "button danger"
		}
		h.raw(`<form method="post"`)
		h.attr("action", action)
		h.raw("><button")
		h.attr("type", "submit")
		h.attr("class", class)
		h.raw(">")
		h.text(T(loc, label))
		h.raw("</button></form></section>")
	})
}

// LiveAlert renders the alert on display, or nothing.
func LiveAlert(status detection.Status, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		if status.Alert == nil {
			return
		}
		h.raw("<div")
		h.attr("class", AlertBadgeClass(status.Alert.Type)+" alert-banner")
		h.attr("data-type", string(status.Alert.Type))
		h.raw(">")
		h.element("strong", "", T(loc, "%s detected", AlertLabel(loc, AudienceUser, status.Alert.Type)))
		h.element("span", "muted", status.Alert.At.Format(TimeLayout))
		h.raw("</div>")
	})
}
