// Package identity holds the authenticated user state consumed by the
// chat layer: who the user is and which role names the server considers
// them to hold. Roles are re-derived on login and on periodic permission
// refresh; nothing here is cached on chat objects.
package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the client's view of the logged-in user.
type Identity struct {
	UserID    string
	Username  string
	Roles     []string
	ExpiresAt time.Time
}

// Expired reports whether the bearer token backing this identity has
// lapsed. A zero ExpiresAt means the token carried no expiry claim and
// is treated as non-expiring; the server remains the authority either way.
func (id *Identity) Expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && now.After(id.ExpiresAt)
}

// tokenClaims is the claim shape minted by the gateway.
type tokenClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// FromToken extracts the identity embedded in a gateway bearer token.
// The signature is deliberately NOT verified: the client never trusts
// the token for authorization, it only reads it to know who it is
// connecting as and when to expect rejection. The server validates the
// token on connect and on every mutating action.
func FromToken(token string) (*Identity, error) {
	parser := jwt.NewParser()
	claims := &tokenClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("identity: parsing bearer token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("identity: bearer token has no subject")
	}
	id := &Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
