package handlers

import (
	"net/http"

	"github.com/zatekoja/hauntedbnb/internal/api/views"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

// Renderer renders a named page template.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

func renderPage(w http.ResponseWriter, r *http.Request, renderer Renderer, status int, page string, data any) {
	if err := renderer.Render(w, status, page, data); err != nil {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("page", page).
			Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError renders err as a full page with the status it maps to.
func renderError(w http.ResponseWriter, r *http.Request, renderer Renderer, nav views.Nav, err error) {
	status := apperrors.StatusOf(err)
	page := views.PageError
	if status == http.StatusNotFound {
		page = views.PageNotFound
	}

	logger := observability.LoggerFromContext(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Int("status", status).Msg("Rendering error page")

	renderPage(w, r, renderer, status, page, views.MessagePage{
		Nav:     nav,
		Title:   http.StatusText(status),
		Message: apperrors.MessageOf(err),
	})
}

// redirect answers a form post with 303 so a reload never resubmits it.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
