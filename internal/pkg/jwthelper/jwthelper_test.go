package jwthelper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votaciones-campus/api/internal/domain"
)

var testKey = []byte("test_jwt_secret_32_chars_minimum!")

func TestGenerateAndParseToken(t *testing.T) {
	principal := domain.Principal{ID: 42, Role: domain.RoleVoter, Name: "Ana"}

	token, err := GenerateToken(testKey, principal, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testKey, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	got, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestGenerateToken_UniqueIDs(t *testing.T) {
	principal := domain.Principal{ID: 1, Role: domain.RoleAdmin}

	a, err := GenerateToken(testKey, principal, time.Hour)
	require.NoError(t, err)
	b, err := GenerateToken(testKey, principal, time.Hour)
	require.NoError(t, err)

	ca, err := ParseToken(testKey, a)
	require.NoError(t, err)
	cb, err := ParseToken(testKey, b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testKey, domain.Principal{ID: 1, Role: domain.RoleVoter}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testKey, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := GenerateToken(testKey, domain.Principal{ID: 1, Role: domain.RoleVoter}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("another_secret_with_32_characters"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = ParseToken(testKey, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testKey, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RequiresExpiry(t *testing.T) {
	claims := Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = ParseToken(testKey, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_Principal(t *testing.T) {
	t.Run("unknown role", func(t *testing.T) {
		c := Claims{Role: "superadmin", RegisteredClaims: jwt.RegisteredClaims{Subject: "3"}}

		_, err := c.Principal()
		assert.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("bad subject", func(t *testing.T) {
		c := Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}

		_, err := c.Principal()
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("zero subject", func(t *testing.T) {
		c := Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "0"}}

		_, err := c.Principal()
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
