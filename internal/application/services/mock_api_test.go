package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
)

// MockAPI is a testify mock of the Haunted BnB API client
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LoginResponse), args.Error(1)
}

func (m *MockAPI) ListPlaces(ctx context.Context, sess entities.Session) ([]entities.Place, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Place), args.Error(1)
}

func (m *MockAPI) GetPlace(ctx context.Context, sess entities.Session, placeID string) (*entities.Place, error) {
	args := m.Called(ctx, sess, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Place), args.Error(1)
}

func (m *MockAPI) GetUser(ctx context.Context, sess entities.Session, userID string) (*entities.User, error) {
	args := m.Called(ctx, sess, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockAPI) ListPlaceReviews(ctx context.Context, sess entities.Session, placeID string) ([]entities.Review, error) {
	args := m.Called(ctx, sess, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Review), args.Error(1)
}

func (m *MockAPI) CreateReview(ctx context.Context, sess entities.Session, review entities.ReviewSubmission) (*entities.Review, error) {
	args := m.Called(ctx, sess, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockAPI) CreateResource(ctx context.Context, sess entities.Session, resource string, fields map[string]string) (json.RawMessage, error) {
	args := m.Called(ctx, sess, resource, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockAPI) ListResource(ctx context.Context, sess entities.Session, resource string) (json.RawMessage, error) {
	args := m.Called(ctx, sess, resource)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// tokenFor signs a token with a key the frontend never sees
func tokenFor(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject}).SignedString([]byte("not-our-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
