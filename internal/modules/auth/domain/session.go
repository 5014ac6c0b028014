package domain

import "time"

// expirySkew treats a token as expired slightly early so a request does not
// leave with a token that dies in flight.
const expirySkew = 10 * time.Second

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the client's read-only copy of what the identity provider issued.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Valid reports whether the bearer token is present and unexpired at now. A
// zero ExpiresAt means the provider gave no expiry.
func (s Session) Valid(now time.Time) bool {
	if s.AccessToken == "" {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return now.Add(expirySkew).Before(s.ExpiresAt)
}
