package services

import (
	"context"
	"errors"
	"strings"

	"github.com/zatekoja/hauntedbnb/internal/api/views"
	"github.com/zatekoja/hauntedbnb/internal/application/loaders"
	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

const (
	stagePlace   = "place"
	stageOwner   = "owner"
	stageReviews = "reviews"
	stageAuthors = "authors"
)

// PlaceDetailAPI is the part of the API client the place page needs.
type PlaceDetailAPI interface {
	GetPlace(ctx context.Context, sess entities.Session, placeID string) (*entities.Place, error)
	GetUser(ctx context.Context, sess entities.Session, userID string) (*entities.User, error)
	ListPlaceReviews(ctx context.Context, sess entities.Session, placeID string) ([]entities.Review, error)
}

// PlaceDetailService builds the page of a single place.
type PlaceDetailService struct {
	api     PlaceDetailAPI
	metrics *observability.Metrics
}

// NewPlaceDetailService creates a new place detail service
func NewPlaceDetailService(api PlaceDetailAPI, metrics *observability.Metrics) *PlaceDetailService {
	return &PlaceDetailService{api: api, metrics: metrics}
}

// Show loads a place page as a pipeline:
//
//	place -> owner
//	place -> reviews -> authors
//
// Only the place itself is required. The owner, reviews and authors
// degrade to placeholders, and authors are never looked up for anonymous
// visitors. An empty placeID yields a NotFound error without any API call.
func (s *PlaceDetailService) Show(ctx context.Context, sess entities.Session, placeID string) (*views.PlaceDetail, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, apperrors.NewNotFoundError("Place not found")
	}

	var (
		place   *entities.Place
		detail  *views.PlaceDetail
		reviews []entities.Review
		names   = map[string]string{}
		nav     = views.Nav{Authenticated: sess.Authenticated()}
	)

	pipeline, err := NewPipeline("place_detail", s.metrics,
		Stage{
			Name: stagePlace,
			Run: func(ctx context.Context) error {
				p, err := s.api.GetPlace(ctx, sess, placeID)
				if err != nil {
					return err
				}
				place = p
				detail = views.NewPlaceDetail(*p, nav)
				return nil
			},
		},
		Stage{
			Name:       stageOwner,
			After:      []string{stagePlace},
			Degradable: true,
			Run: func(ctx context.Context) error {
				if place.OwnerID == "" {
					return apperrors.NewValidationError("place has no owner")
				}
				owner, err := s.api.GetUser(ctx, sess, place.OwnerID)
				if err != nil {
					return err
				}
				detail.SetHost(owner)
				return nil
			},
		},
		Stage{
			Name:       stageReviews,
			After:      []string{stagePlace},
			Degradable: true,
			Run: func(ctx context.Context) error {
				rs, err := s.api.ListPlaceReviews(ctx, sess, placeID)
				if err != nil {
					return err
				}
				reviews = rs
				return nil
			},
		},
		Stage{
			Name:       stageAuthors,
			After:      []string{stageReviews},
			Degradable: true,
			Enabled:    sess.Authenticated,
			Run: func(ctx context.Context) error {
				return s.resolveAuthors(ctx, sess, reviews, names)
			},
		},
	)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid place page pipeline", err)
	}

	if _, err := pipeline.Run(ctx); err != nil {
		return nil, err
	}

	detail.SetReviews(reviews, names)
	return detail, nil
}

// resolveAuthors fills names for every author that could be fetched. The
// lookups run concurrently and each failure only affects its own reviews.
func (s *PlaceDetailService) resolveAuthors(ctx context.Context, sess entities.Session, reviews []entities.Review, names map[string]string) error {
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if r.UserID != "" {
			ids = append(ids, r.UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	users, failures := loaders.NewLoaders(s.api, sess).ResolveUsers(ctx, ids)
	for id, user := range users {
		if name := user.DisplayName(); name != "" {
			names[id] = name
		}
	}

	errs := make([]error, 0, len(failures))
	for _, err := range failures {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
