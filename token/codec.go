// Package token decodes access credentials into typed claims. Decoding is a
// parsing operation only; the signature is the issuing backend's trust
// boundary and is never verified here.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role is the access tier carried in a credential.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ErrDecode marks a malformed credential: wrong segment structure, invalid
// payload, or claims outside the expected shape.
var ErrDecode = fmt.Errorf("token: decode failed")

// Claims are the decoded fields of a credential.
type Claims struct {
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the claims are past their expiry at the given
// instant. A credential without an exp claim never expires; the backend is
// expected to always set one, so this is a documented policy choice rather
// than a guarantee.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(*c.ExpiresAt)
}

// Decode parses a raw credential string into Claims without verifying the
// signature. Unknown or malformed shapes are rejected rather than trusted.
func Decode(raw string) (Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	email, ok := mapClaims["email"].(string)
	if !ok || email == "" {
		return Claims{}, fmt.Errorf("%w: email claim missing or not a string", ErrDecode)
	}

	roleStr, ok := mapClaims["role"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("%w: role claim missing or not a string", ErrDecode)
	}
	role := Role(roleStr)
	if !role.Valid() {
		return Claims{}, fmt.Errorf("%w: unknown role %q", ErrDecode, roleStr)
	}

	claims := Claims{Email: email, Role: role}
	if iat, ok := numericClaim(mapClaims, "iat"); ok {
		claims.IssuedAt = time.Unix(iat, 0)
	}
	if exp, ok := numericClaim(mapClaims, "exp"); ok {
		t := time.Unix(exp, 0)
		claims.ExpiresAt = &t
	}
	return claims, nil
}

// numericClaim reads a unix-seconds claim, which arrives as a JSON number.
func numericClaim(m jwt.MapClaims, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}
