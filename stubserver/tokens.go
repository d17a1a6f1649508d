package stubserver

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/jovincart/storefront/token"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// tokenIssuer creates and validates the HS256 token pairs the stub backend
// hands out.
type tokenIssuer struct {
	secret []byte
}

func newTokenIssuer(secret string) *tokenIssuer {
	return &tokenIssuer{secret: []byte(secret)}
}

// Pair issues an access/refresh token pair for the account.
func (t *tokenIssuer) Pair(email string, role token.Role) (access, refresh string, err error) {
	access, err = t.sign(email, role, "access", accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = t.sign(email, role, "refresh", refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Access issues a fresh access token only (the refresh exchange).
func (t *tokenIssuer) Access(email string, role token.Role) (string, error) {
	return t.sign(email, role, "access", accessTokenTTL)
}

func (t *tokenIssuer) sign(email string, role token.Role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"role":  string(role),
		"typ":   typ,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify parses and validates a token, optionally requiring its typ claim.
// Unlike the client SDK's codec this checks the signature: the stub backend
// is the issuer, so it holds the key.
func (t *tokenIssuer) Verify(raw, expectedType string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if expectedType != "" {
		if typ, ok := claims["typ"].(string); !ok || typ != expectedType {
			return nil, fmt.Errorf("invalid token type")
		}
	}
	return claims, nil
}
