package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/auth"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

// DefaultRating is used when the form leaves the rating unselected.
const DefaultRating = 5

// ReviewAPI is the part of the API client review submission needs.
type ReviewAPI interface {
	CreateReview(ctx context.Context, sess entities.Session, review entities.ReviewSubmission) (*entities.Review, error)
}

// ReviewService submits reviews on behalf of the logged-in user.
type ReviewService struct {
	api      ReviewAPI
	validate *validator.Validate
}

// NewReviewService creates a new review service
func NewReviewService(api ReviewAPI) *ReviewService {
	return &ReviewService{api: api, validate: newValidator()}
}

// Submit posts one review. The author is the token's subject claim, the
// rating defaults to DefaultRating when empty, and nothing is sent when the
// caller is anonymous or the input does not validate.
func (s *ReviewService) Submit(ctx context.Context, sess entities.Session, placeID, text, rating string) (*entities.Review, error) {
	if !sess.Authenticated() {
		return nil, apperrors.NewUnauthorizedError("You must be logged in to add a review")
	}

	userID, err := auth.SubjectFromToken(sess.Token)
	if err != nil {
		return nil, err
	}

	value, err := parseRating(rating)
	if err != nil {
		return nil, err
	}

	submission := entities.ReviewSubmission{
		UserID:  userID,
		PlaceID: strings.TrimSpace(placeID),
		Text:    strings.TrimSpace(text),
		Rating:  value,
	}
	if err := s.validate.StructCtx(ctx, submission); err != nil {
		return nil, validationError(err)
	}

	review, err := s.api.CreateReview(ctx, sess, submission)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("place_id", submission.PlaceID).
			Msg("Review was not accepted")
		return nil, err
	}
	return review, nil
}

func parseRating(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultRating, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	return value, nil
}
