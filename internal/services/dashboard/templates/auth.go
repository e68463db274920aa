package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
)

// LoginView is the login form state.
type LoginView struct {
	Email string
	Error string
	// Demo lists the demo accounts shown as hints.
	Demo []session.Credential
}

// LoginPage renders the sign-in form.
func LoginPage(view LoginView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="auth-card"><h1>SafeDrive</h1>`)
		h.element("p", "muted", T(loc, "Sign in to your account"))
		h.component(ctx, Notice("error", view.Error))
		h.raw(`<form method="post"`)
		h.attr("action", routepath.Login)
		h.raw(` class="form">`)
		field(h, loc, "email", "Email", "email", view.Email, "")
		field(h, loc, "password", "Password", "password", "", "")
		h.raw(`<button type="submit" class="button primary">`)
		h.text(T(loc, "Sign in"))
		h.raw("</button></form>")
		if len(view.Demo) > 0 {
			h.raw(`<div class="demo-accounts">`)
			h.element("p", "muted", T(loc, "Demo accounts"))
			h.raw("<ul>")
			for _, c := range view.Demo {
				h.raw("<li>")
				h.text(string(c.Identity.Role) + ": " + c.Identity.Email + " / " + c.Secret)
				h.raw("</li>")
			}
			h.raw("</ul></div>")
		}
		h.raw("<p><a")
		h.attr("href", routepath.Register)
		h.raw(">")
		h.text(T(loc, "Create an account"))
		h.raw("</a></p></section>")
	})
}

// RegisterView is the registration form state.
type RegisterView struct {
	Name   string
	Email  string
	Terms  bool
	Errors map[string]string
	Notice string
}

// RegisterPage renders the registration form.
func RegisterPage(view RegisterView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="auth-card"><h1>SafeDrive</h1>`)
		h.element("p", "muted", T(loc, "Create your account"))
		h.component(ctx, Notice("info", view.Notice))
		h.raw(`<form method="post"`)
		h.attr("action", routepath.Register)
		h.raw(` class="form">`)
		field(h, loc, "name", "Full name", "text", view.Name, view.Errors["name"])
		field(h, loc, "email", "Email", "email", view.Email, view.Errors["email"])
		field(h, loc, "password", "Password", "password", "", view.Errors["password"])
		field(h, loc, "confirm", "Confirm password", "password", "", view.Errors["confirm"])
		h.raw(`<label class="checkbox"><input type="checkbox" name="terms" value="on"`)
		if view.Terms {
			h.raw(" checked")
		}
		h.raw("> ")
		h.text(T(loc, "I agree to the terms of service"))
		h.raw("</label>")
		fieldError(h, view.Errors["terms"])
		h.raw(`<button type="submit" class="button primary">`)
		h.text(T(loc, "Create account"))
		h.raw("</button></form><p><a")
		h.attr("href", routepath.Login)
		h.raw(">")
		h.text(T(loc, "Already have an account? Sign in"))
		h.raw("</a></p></section>")
	})
}

func field(h *html, loc Localizer, name, label, inputType, value, errText string) {
	h.raw(`<label class="field"><span>`)
	h.text(T(loc, label))
	h.raw("</span><input")
	h.attr("type", inputType)
	h.attr("name", name)
	if value != "" {
		h.attr("value", value)
	}
	if errText != "" {
		h.attr("aria-invalid", "true")
	}
	h.raw("></label>")
	fieldError(h, errText)
}

func fieldError(h *html, errText string) {
	if errText != "" {
		h.element("p", "field-error", errText)
	}
}
