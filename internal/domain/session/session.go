// Package session holds the bearer credential issued by the identity provider.
package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Session is the opaque credential set persisted across restarts.
type Session struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"type,omitempty"`
}

// IsZero reports whether no access token is held.
func (s Session) IsZero() bool { return s.AccessToken == "" }

// Claims is the display subset of the access token payload.
type Claims struct {
	Subject string
	Email   string
}

// Claims decodes the access token payload without verifying its signature.
// The token stays opaque to the client: verification is the backend's job,
// and a token that is not a JWT yields empty claims.
func (s Session) Claims() Claims {
	if s.AccessToken == "" {
		return Claims{}
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, mc); err != nil {
		return Claims{}
	}
	c := Claims{}
	c.Subject, _ = mc.GetSubject()
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	return c
}
