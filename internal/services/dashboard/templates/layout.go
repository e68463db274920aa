package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

// Viewer is the signed-in identity shown in the app shell.
type Viewer struct {
	SignedIn bool
	Name     string
	Email    string
	Avatar   string
	Role     session.Role
}

// ViewerFor builds a Viewer from a session snapshot.
func ViewerFor(snapshot session.Snapshot) Viewer {
	if !snapshot.Authenticated {
		return Viewer{}
	}
	return Viewer{
		SignedIn: true,
		Name:     snapshot.Identity.Name,
		Email:    snapshot.Identity.Email,
		Avatar:   snapshot.Identity.Avatar,
		Role:     snapshot.Identity.Role,
	}
}

// NavItem is one navigation link.
type NavItem struct {
	Label string
	Path  string
}

// Navigation returns the links of role.
func Navigation(role session.Role) []NavItem {
	if role == session.RoleAdmin {
		return []NavItem{
			{Label: "Dashboard", Path: routepath.AdminDashboard},
			{Label: "Drivers", Path: routepath.AdminDrivers},
			{Label: "Alerts", Path: routepath.AdminAlerts},
			{Label: "Settings", Path: routepath.AdminSettings},
		}
	}
	return []NavItem{
		{Label: "Dashboard", Path: routepath.Dashboard},
		{Label: "Live Detection", Path: routepath.LiveDetection},
		{Label: "My Alerts", Path: routepath.Alerts},
		{Label: "My Trips", Path: routepath.Trips},
		{Label: "Profile", Path: routepath.Profile},
	}
}

// Shell describes the document around a page fragment.
type Shell struct {
	Title  string
	Lang   string
	Viewer Viewer
	// Active is the request path, used to highlight navigation.
	Active string
}

// Layout renders a full document with the children from ctx inside main.
func Layout(shell Shell, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		lang := shell.Lang
		if lang == "" {
			lang = "en"
		}
		h.raw("<!doctype html>\n<html")
		h.attr("lang", lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		if shell.Title != "" {
			h.text(shell.Title + " | ")
		}
		h.raw(`SafeDrive</title><link rel="stylesheet" href="/static/app.css"></head><body>`)
		if shell.Viewer.SignedIn {
			sidebar(h, shell, loc)
		}
		h.raw(`<main id="main" class="main">`)
		h.component(ctx, templ.GetChildren(ctx))
		h.raw(`</main><script src="/static/app.js" defer></script></body></html>`)
	})
}

// MainContent renders only the main element, for HTMX swaps.
func MainContent() templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<main id="main" class="main">`)
		h.component(ctx, templ.GetChildren(ctx))
		h.raw("</main>")
	})
}

func sidebar(h *html, shell Shell, loc Localizer) {
	h.raw(`<aside class="sidebar"><div class="brand">SafeDrive</div><nav><ul>`)
	for _, item := range Navigation(shell.Viewer.Role) {
		h.raw("<li><a")
		h.attr("href", item.Path)
		if item.Path == shell.Active {
			h.attr("class", "active")
			h.attr("aria-current", "page")
		}
		h.raw(">")
		h.text(T(loc, item.Label))
		h.raw("</a></li>")
	}
	h.raw(`</ul></nav><div class="viewer">`)
	if shell.Viewer.Avatar != "" {
		h.raw(`<img class="avatar" alt=""`)
		h.attr("src", shell.Viewer.Avatar)
		h.raw(">")
	}
	h.element("span", "viewer-name", shell.Viewer.Name)
	h.element("span", "viewer-email", shell.Viewer.Email)
	h.raw(`<form method="post"`)
	h.attr("action", routepath.Logout)
	h.raw(`><button type="submit" class="link">`)
	h.text(T(loc, "Log out"))
	h.raw("</button></form></div></aside>")
}

// PageHeader renders a page title with an optional subtitle.
func PageHeader(title, subtitle string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<header class="page-header">`)
		h.element("h1", "", title)
		if subtitle != "" {
			h.element("p", "muted", subtitle)
		}
		h.raw("</header>")
	})
}
