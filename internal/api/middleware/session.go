package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
)

// TokenCookie is the cookie the auth token lives in.
const TokenCookie = "token"

type sessionKey struct{}

// TokenStore keeps the auth token in a browser cookie.
type TokenStore struct {
	Secure bool
}

// NewTokenStore creates a token store; secure marks the cookie HTTPS-only
func NewTokenStore(secure bool) *TokenStore {
	return &TokenStore{Secure: secure}
}

// ReadToken returns the stored token, or "" when there is none.
func (s *TokenStore) ReadToken(r *http.Request) string {
	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return cookie.Value
	}
	return value
}

// WriteToken stores token as a session cookie on the root path.
func (s *TokenStore) WriteToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    url.QueryEscape(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearToken expires the token cookie immediately.
func (s *TokenStore) ClearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionMiddleware reads the token once and stores the request's Session
// in its context.
func SessionMiddleware(store *TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := entities.Session{Token: store.ReadToken(r)}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// WithSession returns a context carrying sess
func WithSession(ctx context.Context, sess entities.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the request's Session; anonymous when none was set.
func SessionFrom(ctx context.Context) entities.Session {
	sess, _ := ctx.Value(sessionKey{}).(entities.Session)
	return sess
}
