package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
)

// LoginAPI is the part of the API client login needs.
type LoginAPI interface {
	Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error)
}

// AuthService exchanges credentials for a token.
type AuthService struct {
	api      LoginAPI
	validate *validator.Validate
}

// NewAuthService creates a new auth service
func NewAuthService(api LoginAPI) *AuthService {
	return &AuthService{api: api, validate: newValidator()}
}

// Login returns the token issued for email and password. Storing it is
// left to the caller so a failed login never touches the stored token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	req := entities.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return "", validationError(err)
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		observability.LoggerFromContext(ctx).Info().Err(err).Msg("Login rejected")
		return "", err
	}
	return resp.Token, nil
}
