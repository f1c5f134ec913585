package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/zatekoja/hauntedbnb/internal/api/middleware"
	"github.com/zatekoja/hauntedbnb/internal/api/views"
	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

// AdminService backs the admin forms.
type AdminService interface {
	Page(sess entities.Session) *views.AdminPage
	Create(ctx context.Context, sess entities.Session, resource string, form url.Values) (*views.AdminResult, error)
	List(ctx context.Context, sess entities.Session, resource string) (*views.AdminResult, error)
}

// AdminHandler serves the raw create/list forms.
type AdminHandler struct {
	admin    AdminService
	renderer Renderer
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin AdminService, renderer Renderer) *AdminHandler {
	return &AdminHandler{admin: admin, renderer: renderer}
}

// AdminPage handles GET /admin
func (h *AdminHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	renderPage(w, r, h.renderer, http.StatusOK, views.PageAdmin, h.admin.Page(sess))
}

// CreateResource handles POST /admin/{resource}
func (h *AdminHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, views.Nav{Authenticated: sess.Authenticated()}, apperrors.NewValidationError("invalid form"))
		return
	}

	result, err := h.admin.Create(r.Context(), sess, r.PathValue("resource"), r.PostForm)
	h.renderResult(w, r, sess, result, err)
}

// ListResource handles GET /admin/{resource}
func (h *AdminHandler) ListResource(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	result, err := h.admin.List(r.Context(), sess, r.PathValue("resource"))
	h.renderResult(w, r, sess, result, err)
}

func (h *AdminHandler) renderResult(w http.ResponseWriter, r *http.Request, sess entities.Session, result *views.AdminResult, err error) {
	if err != nil {
		renderError(w, r, h.renderer, views.Nav{Authenticated: sess.Authenticated()}, err)
		return
	}

	page := h.admin.Page(sess)
	page.Results[result.Resource] = result
	renderPage(w, r, h.renderer, http.StatusOK, views.PageAdmin, page)
}
