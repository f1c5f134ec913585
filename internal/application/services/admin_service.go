package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/zatekoja/hauntedbnb/internal/api/views"
	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/clients/hbnbapi"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

// ResourceAPI is the part of the API client the admin forms need.
type ResourceAPI interface {
	CreateResource(ctx context.Context, sess entities.Session, resource string, fields map[string]string) (json.RawMessage, error)
	ListResource(ctx context.Context, sess entities.Session, resource string) (json.RawMessage, error)
}

// AdminService backs the raw create/list forms of the admin page.
type AdminService struct {
	api ResourceAPI
}

// NewAdminService creates a new admin service
func NewAdminService(api ResourceAPI) *AdminService {
	return &AdminService{api: api}
}

// Page returns the admin page with no results yet.
func (s *AdminService) Page(sess entities.Session) *views.AdminPage {
	return &views.AdminPage{
		Nav:       views.Nav{Authenticated: sess.Authenticated()},
		Resources: hbnbapi.Resources,
		Results:   map[string]*views.AdminResult{},
	}
}

// Create posts form as a flat JSON object and reports the raw answer.
// When a field repeats, its last value wins.
func (s *AdminService) Create(ctx context.Context, sess entities.Session, resource string, form url.Values) (*views.AdminResult, error) {
	if !hbnbapi.IsResource(resource) {
		return nil, apperrors.NewNotFoundError("Unknown resource " + resource)
	}

	fields := make(map[string]string, len(form))
	for key, values := range form {
		if len(values) > 0 {
			fields[key] = values[len(values)-1]
		}
	}

	raw, err := s.api.CreateResource(ctx, sess, resource, fields)
	return adminResult(resource, raw, err), nil
}

// List reports the raw answer of listing resource.
func (s *AdminService) List(ctx context.Context, sess entities.Session, resource string) (*views.AdminResult, error) {
	if !hbnbapi.IsResource(resource) {
		return nil, apperrors.NewNotFoundError("Unknown resource " + resource)
	}

	raw, err := s.api.ListResource(ctx, sess, resource)
	return adminResult(resource, raw, err), nil
}

func adminResult(resource string, raw json.RawMessage, err error) *views.AdminResult {
	if err != nil {
		body, _ := json.MarshalIndent(map[string]string{"error": apperrors.MessageOf(err)}, "", "  ")
		return &views.AdminResult{Resource: resource, Body: string(body), Failed: true}
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") != nil {
		return &views.AdminResult{Resource: resource, Body: string(raw)}
	}
	return &views.AdminResult{Resource: resource, Body: pretty.String()}
}
