package hbnbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is read looking for a message.
const maxErrorBody = 64 << 10

// Resources are the collections the admin forms may create and list.
var Resources = []string{"users", "places", "amenities", "reviews"}

// IsResource reports whether name is one of Resources.
func IsResource(name string) bool {
	for _, r := range Resources {
		if r == name {
			return true
		}
	}
	return false
}

type Client interface {
	Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error)
	ListPlaces(ctx context.Context, sess entities.Session) ([]entities.Place, error)
	GetPlace(ctx context.Context, sess entities.Session, placeID string) (*entities.Place, error)
	GetUser(ctx context.Context, sess entities.Session, userID string) (*entities.User, error)
	ListPlaceReviews(ctx context.Context, sess entities.Session, placeID string) ([]entities.Review, error)
	CreateReview(ctx context.Context, sess entities.Session, review entities.ReviewSubmission) (*entities.Review, error)
	CreateResource(ctx context.Context, sess entities.Session, resource string, fields map[string]string) (json.RawMessage, error)
	ListResource(ctx context.Context, sess entities.Session, resource string) (json.RawMessage, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// call describes one REST API request. route is the path template used
// for span names and metric attributes; path is the concrete path.
type call struct {
	method string
	route  string
	path   string
	token  string
	body   interface{}
	out    interface{}
}

// NewClient creates a client whose calls are bounded only by their context.
func NewClient(baseURL string) *HTTPClient {
	return NewClientWithTimeout(baseURL, 0)
}

// NewClientWithTimeout creates a client with an overall per-call timeout;
// zero disables it.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *HTTPClient {
	trimmed := strings.TrimRight(baseURL, "/")
	return &HTTPClient{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithMetrics makes the client record upstream call metrics.
func (c *HTTPClient) WithMetrics(metrics *observability.Metrics) *HTTPClient {
	c.metrics = metrics
	return c
}

func (c *HTTPClient) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	out := &entities.LoginResponse{}
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/login",
		path:   "/login",
		body:   req,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, apperrors.NewMalformedError("Login response did not contain a token", nil)
	}
	return out, nil
}

func (c *HTTPClient) ListPlaces(ctx context.Context, sess entities.Session) ([]entities.Place, error) {
	var out []entities.Place
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/places",
		path:   "/places",
		token:  sess.Token,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetPlace(ctx context.Context, sess entities.Session, placeID string) (*entities.Place, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, apperrors.NewValidationError("place id is required")
	}
	out := &entities.Place{}
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/places/{id}",
		path:   "/places/" + url.PathEscape(placeID),
		token:  sess.Token,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, sess entities.Session, userID string) (*entities.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	out := &entities.User{}
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/users/{id}",
		path:   "/users/" + url.PathEscape(userID),
		token:  sess.Token,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListPlaceReviews(ctx context.Context, sess entities.Session, placeID string) ([]entities.Review, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, apperrors.NewValidationError("place id is required")
	}
	var out []entities.Review
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/places/{id}/reviews",
		path:   "/places/" + url.PathEscape(placeID) + "/reviews",
		token:  sess.Token,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateReview(ctx context.Context, sess entities.Session, review entities.ReviewSubmission) (*entities.Review, error) {
	out := &entities.Review{}
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/reviews",
		path:   "/reviews",
		token:  sess.Token,
		body:   review,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateResource(ctx context.Context, sess entities.Session, resource string, fields map[string]string) (json.RawMessage, error) {
	if !IsResource(resource) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown resource %q", resource))
	}
	var out json.RawMessage
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/" + resource + "/",
		path:   "/" + resource + "/",
		token:  sess.Token,
		body:   fields,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListResource(ctx context.Context, sess entities.Session, resource string) (json.RawMessage, error) {
	if !IsResource(resource) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown resource %q", resource))
	}
	var out json.RawMessage
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/" + resource + "/",
		path:   "/" + resource + "/",
		token:  sess.Token,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, cl call) error {
	ctx, span := observability.StartSpan(ctx, "hbnbapi "+cl.method+" "+cl.route)
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("http.method", cl.method),
		attribute.String("hbnbapi.route", cl.route),
	)

	start := time.Now()
	statusCode, err := c.send(ctx, cl)
	observability.RecordUpstreamMetric(ctx, c.metrics, cl.method, cl.route, statusCode, time.Since(start))
	observability.SetSpanAttributes(span, attribute.Int("http.status_code", statusCode))
	observability.RecordError(span, err)

	return err
}

func (c *HTTPClient) send(ctx context.Context, cl call) (int, error) {
	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return 0, apperrors.NewInternalError("failed to encode request", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if cl.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cl.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, apperrors.NewTransportError("Haunted BnB API is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, apperrors.NewUpstreamError(resp.StatusCode, errorMessage(resp))
	}

	if cl.out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return resp.StatusCode, apperrors.NewMalformedError("Haunted BnB API returned an unreadable response", err)
	}

	return resp.StatusCode, nil
}

// errorMessage extracts "message" or "error" from a JSON error body,
// falling back to the status text.
func errorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var fields map[string]json.RawMessage
		if json.Unmarshal(raw, &fields) == nil {
			for _, key := range []string{"message", "error"} {
				var msg string
				if value, ok := fields[key]; ok && json.Unmarshal(value, &msg) == nil && msg != "" {
					return msg
				}
			}
		}
	}
	return statusText(resp)
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	if text == "" {
		text = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return text
}
