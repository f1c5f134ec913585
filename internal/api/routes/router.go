package routes

import (
	"net/http"

	"github.com/zatekoja/hauntedbnb/internal/api/handlers"
	"github.com/zatekoja/hauntedbnb/internal/api/middleware"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	placesHandler *handlers.PlacesHandler
	authHandler   *handlers.AuthHandler
	adminHandler  *handlers.AdminHandler

	tokens  *middleware.TokenStore
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	placesHandler *handlers.PlacesHandler,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	tokens *middleware.TokenStore,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		placesHandler: placesHandler,
		authHandler:   authHandler,
		adminHandler:  adminHandler,
		tokens:        tokens,
		metrics:       metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Places
	r.mux.HandleFunc("GET /{$}", r.placesHandler.ListPlaces)
	r.mux.HandleFunc("GET /places/{id}", r.placesHandler.GetPlace)
	r.mux.HandleFunc("POST /places/{id}/reviews", r.placesHandler.SubmitReview)

	// Auth
	r.mux.HandleFunc("GET /login", r.authHandler.LoginForm)
	r.mux.HandleFunc("POST /login", r.authHandler.Login)
	r.mux.HandleFunc("GET /logout", r.authHandler.Logout)
	r.mux.HandleFunc("POST /logout", r.authHandler.Logout)

	// Admin forms
	r.mux.HandleFunc("GET /admin", r.adminHandler.AdminPage)
	r.mux.HandleFunc("GET /admin/{resource}", r.adminHandler.ListResource)
	r.mux.HandleFunc("POST /admin/{resource}", r.adminHandler.CreateResource)

	r.mux.HandleFunc("/", r.placesHandler.NotFound)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.SessionMiddleware(r.tokens)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)

	return handler
}
