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

// ReviewAddedNotice is shown after a successful review submission.
const ReviewAddedNotice = "Review added successfully!"

// PlacesService builds the places list.
type PlacesService interface {
	List(ctx context.Context, sess entities.Session, priceFilter string) *views.PlacesPage
}

// PlaceDetailService builds one place page.
type PlaceDetailService interface {
	Show(ctx context.Context, sess entities.Session, placeID string) (*views.PlaceDetail, error)
}

// ReviewService submits reviews.
type ReviewService interface {
	Submit(ctx context.Context, sess entities.Session, placeID, text, rating string) (*entities.Review, error)
}

// PlacesHandler serves the places list, place pages and review submission.
type PlacesHandler struct {
	places   PlacesService
	details  PlaceDetailService
	reviews  ReviewService
	renderer Renderer
}

// NewPlacesHandler creates a new places handler
func NewPlacesHandler(places PlacesService, details PlaceDetailService, reviews ReviewService, renderer Renderer) *PlacesHandler {
	return &PlacesHandler{
		places:   places,
		details:  details,
		reviews:  reviews,
		renderer: renderer,
	}
}

// ListPlaces handles GET /
func (h *PlacesHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	page := h.places.List(r.Context(), sess, r.URL.Query().Get("price"))
	renderPage(w, r, h.renderer, http.StatusOK, views.PageIndex, page)
}

// NotFound handles every path no other route matches
func (h *PlacesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	renderError(w, r, h.renderer, views.Nav{Authenticated: sess.Authenticated()}, apperrors.NewNotFoundError("Nothing haunts this page."))
}

// GetPlace handles GET /places/{id}
func (h *PlacesHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())

	detail, err := h.details.Show(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		renderError(w, r, h.renderer, views.Nav{Authenticated: sess.Authenticated()}, err)
		return
	}

	if r.URL.Query().Get("notice") == views.NoticeReviewAdded {
		detail.Notice = ReviewAddedNotice
	}
	renderPage(w, r, h.renderer, http.StatusOK, views.PagePlace, detail)
}

// SubmitReview handles POST /places/{id}/reviews
func (h *PlacesHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if !sess.Authenticated() {
		redirect(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, views.Nav{Authenticated: true}, apperrors.NewValidationError("invalid form"))
		return
	}

	placeID := r.PathValue("id")
	text := r.PostFormValue("text")
	rating := r.PostFormValue("rating")

	_, submitErr := h.reviews.Submit(r.Context(), sess, placeID, text, rating)
	if submitErr == nil {
		redirect(w, r, "/places/"+url.PathEscape(placeID)+"?notice="+views.NoticeReviewAdded)
		return
	}

	detail, err := h.details.Show(r.Context(), sess, placeID)
	if err != nil {
		renderError(w, r, h.renderer, views.Nav{Authenticated: true}, err)
		return
	}

	detail.Error = "Error adding review: " + apperrors.MessageOf(submitErr)
	detail.DraftText = text
	detail.DraftRating = rating
	renderPage(w, r, h.renderer, apperrors.StatusOf(submitErr), views.PagePlace, detail)
}
