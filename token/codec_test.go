package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestDecode(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	raw := signed(t, jwt.MapClaims{
		"email": "jovin@example.com",
		"role":  "admin",
		"iat":   now.Unix(),
		"exp":   now.Add(15 * time.Minute).Unix(),
	})

	claims, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "jovin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, now, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, now.Add(15*time.Minute), *claims.ExpiresAt)
}

func TestDecodeWithoutExpiry(t *testing.T) {
	raw := signed(t, jwt.MapClaims{"email": "a@b.c", "role": "user"})

	claims, err := Decode(raw)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.False(t, claims.Expired(time.Now().Add(100*365*24*time.Hour)))
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"not a token":        "hello world",
		"two segments":       "abc.def",
		"four segments":      "a.b.c.d",
		"garbage payload":    "eyJhbGciOiJIUzI1NiJ9.not-base64-json.sig",
		"payload not object": "eyJhbGciOiJIUzI1NiJ9.MTIz.sig",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(raw)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecodeRejectsBadClaims(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		_, err := Decode(signed(t, jwt.MapClaims{"role": "user"}))
		assert.ErrorIs(t, err, ErrDecode)
	})
	t.Run("missing role", func(t *testing.T) {
		_, err := Decode(signed(t, jwt.MapClaims{"email": "a@b.c"}))
		assert.ErrorIs(t, err, ErrDecode)
	})
	t.Run("unknown role", func(t *testing.T) {
		_, err := Decode(signed(t, jwt.MapClaims{"email": "a@b.c", "role": "superuser"}))
		assert.ErrorIs(t, err, ErrDecode)
	})
	t.Run("numeric email", func(t *testing.T) {
		_, err := Decode(signed(t, jwt.MapClaims{"email": 42, "role": "user"}))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestExpired(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Minute)
	assert.True(t, Claims{ExpiresAt: &past}.Expired(now))

	future := now.Add(time.Minute)
	assert.False(t, Claims{ExpiresAt: &future}.Expired(now))

	// Expiry is inclusive: now >= exp means expired.
	exact := now
	assert.True(t, Claims{ExpiresAt: &exact}.Expired(now))

	assert.False(t, Claims{}.Expired(now))
}
