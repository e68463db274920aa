// Package pagerender centralizes page rendering for full-page and HTMX
// requests.
package pagerender

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/access"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
)

// Page describes one page response.
type Page struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

// Write renders page inside the app shell, or only its main content for
// HTMX requests.
func Write(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}
	ctx := templ.WithChildren(requestContext(r), fragment)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if httpx.IsHTMXRequest(r) {
		w.WriteHeader(statusCode)
		return templates.MainContent().Render(ctx, w)
	}

	loc, lang := i18n.ForRequest(r)
	shell := templates.Shell{
		Title:  page.Title,
		Lang:   lang.String(),
		Viewer: Viewer(r),
	}
	if r != nil && r.URL != nil {
		shell.Active = r.URL.Path
	}
	w.WriteHeader(statusCode)
	return templates.Layout(shell, loc).Render(ctx, w)
}

// Viewer returns the identity attached to r by the access guard.
func Viewer(r *http.Request) templates.Viewer {
	if r == nil {
		return templates.Viewer{}
	}
	store, ok := access.StoreFromContext(r.Context())
	if !ok {
		return templates.Viewer{}
	}
	return templates.ViewerFor(store.Snapshot())
}

// Localizer returns the message printer for r.
func Localizer(r *http.Request) templates.Localizer {
	loc, _ := i18n.ForRequest(r)
	return loc
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
