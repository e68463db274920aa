package templates

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
)

// LoadingState is shown while a session is not ready.
func LoadingState(loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="loading" role="status"><div class="spinner"></div>`)
		h.element("p", "", T(loc, i18n.KeyLoading))
		h.raw("</div>")
	})
}

// ErrorPageTitle returns the document title of an error page.
func ErrorPageTitle(status int, loc Localizer) string {
	text := http.StatusText(status)
	if text == "" {
		text = http.StatusText(http.StatusInternalServerError)
	}
	return T(loc, text)
}

// ErrorState renders an error message with a way back home.
func ErrorState(status int, message string, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<section class="error-state">`)
		h.element("h1", "", ErrorPageTitle(status, loc))
		if message != "" {
			h.element("p", "", message)
		}
		h.raw("<a")
		h.attr("href", routepath.Root)
		h.raw(">")
		h.text(T(loc, "Back to SafeDrive"))
		h.raw("</a></section>")
	})
}

// Notice renders a dismissable status message.
func Notice(kind, message string) templ.Component {
	return component(func(_ context.Context, h *html) {
		if message == "" {
			return
		}
		h.raw(`<div role="status"`)
		h.attr("class", "notice notice-"+kind)
		h.raw(">")
		h.text(message)
		h.raw("</div>")
	})
}
