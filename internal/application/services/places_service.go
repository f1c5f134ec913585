package services

import (
	"context"

	"github.com/zatekoja/hauntedbnb/internal/api/views"
	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

// PlacesAPI is the part of the API client the places list needs.
type PlacesAPI interface {
	ListPlaces(ctx context.Context, sess entities.Session) ([]entities.Place, error)
}

// PlacesService builds the places list page.
type PlacesService struct {
	api PlacesAPI
}

// NewPlacesService creates a new places service
func NewPlacesService(api PlacesAPI) *PlacesService {
	return &PlacesService{api: api}
}

// List fetches every place once and applies priceFilter to the rendered
// cards. A failed fetch or a bad filter is reported on the page itself.
func (s *PlacesService) List(ctx context.Context, sess entities.Session, priceFilter string) *views.PlacesPage {
	logger := observability.LoggerFromContext(ctx)

	places, err := s.api.ListPlaces(ctx, sess)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch places")
		page := views.NewPlacesPage(nil, views.Nav{Authenticated: sess.Authenticated()})
		page.Error = "Could not load places: " + apperrors.MessageOf(err)
		return page
	}

	page := views.NewPlacesPage(places, views.Nav{Authenticated: sess.Authenticated()})
	if err := page.ApplyPriceFilter(priceFilter); err != nil {
		logger.Debug().Str("price", priceFilter).Msg("Ignoring invalid price filter")
		page.Error = apperrors.MessageOf(err)
	}
	return page
}
