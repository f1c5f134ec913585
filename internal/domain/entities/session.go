package entities

// Session carries the caller's auth token for the duration of one request.
// An empty Token means the caller is anonymous.
type Session struct {
	Token string
}

// Authenticated reports whether a token is present
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// LoginRequest is the body of the login call
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the answer of the login call
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
