package hbnbapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

type recordedRequest struct {
	method string
	path   string
	header http.Header
	body   []byte
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*HTTPClient, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone(), body: body})
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewClient(server.URL + "/api/v1/"), &seen
}

func writeJSON(w http.ResponseWriter, status int, payload string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(payload))
}

func TestHTTPClient_AttachesBearerWheneverTokenPresent(t *testing.T) {
	client, seen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"P1","name":"Creaky Manor","price_by_night":100}]`)
	})

	places, err := client.ListPlaces(context.Background(), entities.Session{Token: "tok"})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Creaky Manor", places[0].Name)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/api/v1/places", req.path)
	assert.Equal(t, "Bearer tok", req.header.Get("Authorization"))
	assert.Empty(t, req.header.Get("Content-Type"), "no body, no content type")
}

func TestHTTPClient_AnonymousSendsNoAuthorization(t *testing.T) {
	client, seen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"P1","owner_id":"U1"}`)
	})

	place, err := client.GetPlace(context.Background(), entities.Session{}, "P1")
	require.NoError(t, err)
	assert.Equal(t, "U1", place.OwnerID)
	assert.Empty(t, (*seen)[0].header.Get("Authorization"))
	assert.Equal(t, "/api/v1/places/P1", (*seen)[0].path)
}

func TestHTTPClient_CreateReviewBody(t *testing.T) {
	client, seen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":"R1","user_id":"U123","place_id":"P1","text":"Spooky!","rating":4}`)
	})

	review, err := client.CreateReview(context.Background(), entities.Session{Token: "tok"}, entities.ReviewSubmission{
		UserID:  "U123",
		PlaceID: "P1",
		Text:    "Spooky!",
		Rating:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, "R1", review.ID)

	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/v1/reviews", req.path)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
	assert.Equal(t, "Bearer tok", req.header.Get("Authorization"))
	assert.JSONEq(t, `{"user_id":"U123","place_id":"P1","text":"Spooky!","rating":4}`, string(req.body))
}

func TestHTTPClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"json message", http.StatusBadRequest, `{"message":"You cannot review your own place"}`, "You cannot review your own place"},
		{"json error", http.StatusNotFound, `{"error":"Place not found"}`, "Place not found"},
		{"message wins over structured errors", http.StatusBadRequest, `{"errors":{"rating":"bad"},"message":"Input payload validation failed"}`, "Input payload validation failed"},
		{"non-string error falls back", http.StatusConflict, `{"error":{"code":1}}`, "Conflict"},
		{"html body falls back", http.StatusInternalServerError, `<html>oops</html>`, "Internal Server Error"},
		{"empty body falls back", http.StatusUnauthorized, ``, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.GetUser(context.Background(), entities.Session{Token: "tok"}, "U1")
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeUpstream, appErr.Type)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestHTTPClient_MalformedSuccessBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":`)
	})

	_, err := client.GetUser(context.Background(), entities.Session{}, "U1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformed))
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(server.URL)
	_, err := client.ListPlaces(context.Background(), entities.Session{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransport))
	assert.Equal(t, "Haunted BnB API is unreachable", apperrors.MessageOf(err))
}

func TestHTTPClient_Login(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		client, seen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"message":"Welcome back","token":"abc.def.ghi"}`)
		})

		resp, err := client.Login(context.Background(), entities.LoginRequest{Email: "a@b.c", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", resp.Token)
		assert.JSONEq(t, `{"email":"a@b.c","password":"pw"}`, string((*seen)[0].body))
		assert.Empty(t, (*seen)[0].header.Get("Authorization"))
	})

	t.Run("missing token is malformed", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"message":"ok"}`)
		})

		_, err := client.Login(context.Background(), entities.LoginRequest{Email: "a@b.c", Password: "pw"})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformed))
	})
}

func TestHTTPClient_Resources(t *testing.T) {
	client, seen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":"A1","name":"Ouija board"}`)
	})

	raw, err := client.CreateResource(context.Background(), entities.Session{}, "amenities", map[string]string{"name": "Ouija board"})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "A1", decoded["id"])
	assert.Equal(t, "/api/v1/amenities/", (*seen)[0].path)

	_, err = client.ListResource(context.Background(), entities.Session{}, "ghosts")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Len(t, *seen, 1, "unknown resources never reach the API")
}

func TestHTTPClient_RejectsEmptyIDs(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.GetPlace(context.Background(), entities.Session{}, " ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = client.GetUser(context.Background(), entities.Session{}, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
