package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims is the typed shape of the identity provider's JWT.
// Subject carries the provider user id; Email/Name ride along for the
// local user mirror.
type AccessTokenClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the provider subject.
func (c *AccessTokenClaims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
