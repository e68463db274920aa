package auth

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/access"
	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/pagerender"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/weberror"
	"github.com/safedrive/dashboard/internal/services/dashboard/preferences"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// registration is the sign-up form. No account is created from it.
type registration struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Confirm  string `validate:"required,eqfield=Password"`
	Terms    bool   `validate:"required"`
}

type handlers struct {
	deps        module.Dependencies
	credentials []session.Credential
	logger      *zap.Logger
}

func newHandlers(deps module.Dependencies) handlers {
	credentials := deps.Credentials
	if credentials == nil {
		credentials = session.DemoCredentials()
	}
	return handlers{deps: deps, credentials: credentials, logger: deps.Log()}
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r)
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	if snap.Authenticated {
		httpx.WriteRedirect(w, r, access.Home(snap.Identity.Role))
		return
	}
	h.writeLogin(w, r, http.StatusOK, templates.LoginView{})
}

// snapshot reads the session, without registering the scope when
// PeekSession is set.
func (h handlers) snapshot(r *http.Request) (session.Snapshot, error) {
	if h.deps.PeekSession != nil {
		return h.deps.PeekSession(r)
	}
	store, err := h.deps.ResolveSession(r)
	if err != nil {
		return session.Snapshot{}, err
	}
	return store.Snapshot(), nil
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		weberror.Write(w, r, h.logger, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse login form", err))
		return
	}
	store, err := h.deps.ResolveSession(r)
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	identity, err := store.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if apperrors.CodeOf(err) != apperrors.CodeAuthenticationFailed {
			weberror.Write(w, r, h.logger, err)
			return
		}
		h.writeLogin(w, r, http.StatusUnauthorized, templates.LoginView{
			Email: email,
			Error: weberror.PublicMessage(pagerender.Localizer(r), err),
		})
		return
	}
	h.logger.Info("signed in", zap.String("user_id", identity.ID), zap.String("role", string(identity.Role)))
	httpx.WriteRedirect(w, r, access.Home(identity.Role))
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	store, err := h.deps.ResolveSession(r)
	if err != nil {
		weberror.Write(w, r, h.logger, err)
		return
	}
	if err := store.Logout(r.Context()); err != nil {
		h.logger.Warn("sign out", zap.Error(err))
	}
	if h.deps.ReleaseDetection != nil {
		h.deps.ReleaseDetection(r)
	}
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.writeRegister(w, r, http.StatusOK, templates.RegisterView{})
}

func (h handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		weberror.Write(w, r, h.logger, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse registration form", err))
		return
	}
	form := registration{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
		Terms:    r.PostFormValue("terms") != "",
	}
	view := templates.RegisterView{Name: form.Name, Email: form.Email, Terms: form.Terms}

	if err := validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			weberror.Write(w, r, h.logger, err)
			return
		}
		view.Errors = preferences.FieldErrors(fieldErrs)
		h.writeRegister(w, r, http.StatusUnprocessableEntity, view)
		return
	}
	view.Notice = templates.T(pagerender.Localizer(r), i18n.KeyRegisterNotice)
	h.writeRegister(w, r, http.StatusOK, view)
}

func (h handlers) writeLogin(w http.ResponseWriter, r *http.Request, status int, view templates.LoginView) {
	loc := pagerender.Localizer(r)
	view.Demo = h.credentials
	h.write(w, r, pagerender.Page{
		Title:      templates.T(loc, "Sign in"),
		StatusCode: status,
		Fragment:   templates.LoginPage(view, loc),
	})
}

func (h handlers) writeRegister(w http.ResponseWriter, r *http.Request, status int, view templates.RegisterView) {
	loc := pagerender.Localizer(r)
	h.write(w, r, pagerender.Page{
		Title:      templates.T(loc, "Register"),
		StatusCode: status,
		Fragment:   templates.RegisterPage(view, loc),
	})
}

func (h handlers) write(w http.ResponseWriter, r *http.Request, page pagerender.Page) {
	if err := pagerender.Write(w, r, page); err != nil {
		h.logger.Warn("render page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
