package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hauntedbnb/internal/api/handlers"
	"github.com/zatekoja/hauntedbnb/internal/api/middleware"
	"github.com/zatekoja/hauntedbnb/internal/api/views"
	"github.com/zatekoja/hauntedbnb/internal/application/services"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/clients/hbnbapi"
)

// fakeAPI is an in-memory Haunted BnB REST API
type fakeAPI struct {
	mu      sync.Mutex
	paths   []string
	reviews [][]byte
	token   string
}

func (f *fakeAPI) seen(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.paths {
		if p == path {
			return true
		}
	}
	return false
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	authed := r.Header.Get("Authorization") == "Bearer "+f.token
	w.Header().Set("Content-Type", "application/json")

	switch r.Method + " " + r.URL.Path {
	case "POST /login":
		var creds map[string]string
		_ = json.Unmarshal(body, &creds)
		if creds["password"] != "boo" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"` + f.token + `"}`))
	case "GET /places":
		_, _ = w.Write([]byte(`[{"id":"P1","name":"Creaky Manor","price_by_night":100},{"id":"P2","name":"Wailing Tower","price_by_night":250}]`))
	case "GET /places/P1":
		_, _ = w.Write([]byte(`{"id":"P1","name":"Creaky Manor","price_by_night":100,"owner_id":"U9","amenities":["Cold spots"]}`))
	case "GET /places/P1/reviews":
		_, _ = w.Write([]byte(`[{"id":"R1","user_id":"U1","text":"So cold","rating":3,"created_at":"2024-10-31T23:59:00"}]`))
	case "GET /users/U9", "GET /users/U1":
		if !authed {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"Missing Authorization Header"}`))
			return
		}
		if strings.HasSuffix(r.URL.Path, "U9") {
			_, _ = w.Write([]byte(`{"id":"U9","first_name":"Casper","last_name":"Friendly"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"U1","first_name":"Bloody","last_name":"Mary"}`))
	case "POST /reviews":
		f.mu.Lock()
		f.reviews = append(f.reviews, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"R2"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	}
}

func newTestApp(t *testing.T) (*httptest.Server, *fakeAPI) {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "U123"}).SignedString([]byte("api-secret"))
	require.NoError(t, err)

	api := &fakeAPI{token: token}
	apiServer := httptest.NewServer(api)
	t.Cleanup(apiServer.Close)

	client := hbnbapi.NewClient(apiServer.URL)
	renderer, err := views.NewRenderer()
	require.NoError(t, err)
	tokens := middleware.NewTokenStore(false)

	router := NewRouter(
		handlers.NewPlacesHandler(
			services.NewPlacesService(client),
			services.NewPlaceDetailService(client, nil),
			services.NewReviewService(client),
			renderer,
		),
		handlers.NewAuthHandler(services.NewAuthService(client), tokens, renderer),
		handlers.NewAdminHandler(services.NewAdminService(client), renderer),
		tokens,
		nil,
	)

	app := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(app.Close)
	return app, api
}

func noRedirects() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRouter_Health(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := http.Get(app.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", readBody(t, resp))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestRouter_UnknownPath(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := http.Get(app.URL + "/crypt")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Nothing haunts this page.")
}

func TestRouter_PlacesListFilter(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := http.Get(app.URL + "/?price=200")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Creaky Manor")
	assert.Contains(t, body, `data-price="250" hidden`)
	assert.Contains(t, body, `class="login-button"`)
}

func TestRouter_AnonymousPlacePage(t *testing.T) {
	app, api := newTestApp(t)

	resp, err := http.Get(app.URL + "/places/P1")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, views.HostAnonymous)
	assert.Contains(t, body, views.ReviewerAnonymous)
	assert.Contains(t, body, "Cold spots")
	assert.NotContains(t, body, `id="add-review"`)
	assert.False(t, api.seen("GET /users/U1"), "anonymous visitors never trigger author lookups")
}

func TestRouter_LoginReviewLogout(t *testing.T) {
	app, api := newTestApp(t)
	client := noRedirects()

	// wrong password: no cookie, page re-rendered
	resp, err := client.PostForm(app.URL+"/login", url.Values{"email": {"casper@haunted.bnb"}, "password": {"nope"}})
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
	assert.Contains(t, body, "Login failed: Invalid credentials")

	// right password: cookie and redirect home
	resp, err = client.PostForm(app.URL+"/login", url.Values{"email": {"casper@haunted.bnb"}, "password": {"boo"}})
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	require.Len(t, resp.Cookies(), 1)
	cookie := resp.Cookies()[0]
	assert.Equal(t, api.token, cookie.Value)

	// authenticated place page resolves host and authors
	req, _ := http.NewRequest(http.MethodGet, app.URL+"/places/P1", nil)
	req.AddCookie(cookie)
	resp, err = client.Do(req)
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Contains(t, body, "Casper Friendly")
	assert.Contains(t, body, "Bloody Mary")
	assert.Contains(t, body, "2024-10-31")
	assert.Contains(t, body, `id="add-review"`)

	// review submission sends the exact body
	req, _ = http.NewRequest(http.MethodPost, app.URL+"/places/P1/reviews", strings.NewReader(url.Values{"text": {"Spooky!"}, "rating": {"4"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	resp, err = client.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/places/P1?notice=review-added", resp.Header.Get("Location"))
	require.Len(t, api.reviews, 1)
	assert.JSONEq(t, `{"user_id":"U123","place_id":"P1","text":"Spooky!","rating":4}`, string(api.reviews[0]))

	// logout clears the cookie
	req, _ = http.NewRequest(http.MethodPost, app.URL+"/logout", nil)
	req.AddCookie(cookie)
	resp, err = client.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "Max-Age=0")
}

func TestRouter_AnonymousReviewPostRedirectsToLogin(t *testing.T) {
	app, api := newTestApp(t)

	resp, err := noRedirects().PostForm(app.URL+"/places/P1/reviews", url.Values{"text": {"Boo"}})
	require.NoError(t, err)
	readBody(t, resp)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Empty(t, api.reviews)
}
