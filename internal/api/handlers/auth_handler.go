package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/hauntedbnb/internal/api/middleware"
	"github.com/zatekoja/hauntedbnb/internal/api/views"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

// AuthService exchanges credentials for a token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler serves login and logout.
type AuthHandler struct {
	auth     AuthService
	tokens   *middleware.TokenStore
	renderer Renderer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthService, tokens *middleware.TokenStore, renderer Renderer) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, renderer: renderer}
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	renderPage(w, r, h.renderer, http.StatusOK, views.PageLogin, views.LoginPage{
		Nav: views.Nav{Authenticated: sess.Authenticated()},
	})
}

// Login handles POST /login. The token cookie is only written once the API
// has issued a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, views.Nav{Authenticated: sess.Authenticated()}, apperrors.NewValidationError("invalid form"))
		return
	}

	email := r.PostFormValue("email")
	token, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		renderPage(w, r, h.renderer, apperrors.StatusOf(err), views.PageLogin, views.LoginPage{
			Nav:   views.Nav{Authenticated: sess.Authenticated()},
			Email: email,
			Error: "Login failed: " + apperrors.MessageOf(err),
		})
		return
	}

	h.tokens.WriteToken(w, token)
	redirect(w, r, "/")
}

// Logout handles GET and POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.tokens.ClearToken(w)
	redirect(w, r, "/login")
}
