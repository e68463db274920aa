// Package weberror renders error responses for dashboard modules.
package weberror

import (
	"net/http"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/pagerender"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
	"go.uber.org/zap"
)

// PublicMessage resolves a user-safe localized message for err.
func PublicMessage(loc templates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeAuthenticationFailed:
		return templates.T(loc, i18n.KeyLoginFailed)
	case apperrors.CodeInvalidArgument:
		if md := apperrors.MetadataOf(err); md["field"] != "" {
			return templates.T(loc, "Invalid %s: %q", md["field"], md["value"])
		}
	}
	status := apperrors.HTTPStatus(err)
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	return templates.T(loc, http.StatusText(status))
}

// Write renders err as an error page with its mapped status. Server errors
// are logged; their causes never reach the page.
func Write(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	if w == nil {
		return
	}
	status := apperrors.HTTPStatus(err)
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError && logger != nil {
		fields := []zap.Field{zap.Int("status", status), zap.Error(err)}
		if r != nil {
			fields = append(fields, zap.String("method", r.Method), zap.String("path", r.URL.Path))
		}
		logger.Error("request failed", fields...)
	}
	WriteStatus(w, r, status, PublicMessage(pagerender.Localizer(r), err))
}

// WriteStatus renders an error page for status with message.
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	loc := pagerender.Localizer(r)
	page := pagerender.Page{
		Title:      templates.ErrorPageTitle(status, loc),
		StatusCode: status,
		Fragment:   templates.ErrorState(status, message, loc),
	}
	if err := pagerender.Write(w, r, page); err != nil {
		http.Error(w, http.StatusText(status), status)
	}
}

// WriteJSON writes err as {"error": message} with its mapped status.
func WriteJSON(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	_ = httpx.WriteJSONError(w, status, PublicMessage(pagerender.Localizer(r), err))
}

// NotFound renders the 404 page.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, r, nil, apperrors.New(apperrors.CodeNotFound, "page not found"))
}
