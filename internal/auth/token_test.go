package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", 60)

	tok, expiresAt, err := tm.GenerateToken("user-123", "admin@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.SubjectID)
	assert.Equal(t, "admin@example.com", claims.EmailAddress)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewTokenManager("right-secret", 60).GenerateToken("u1", "a@b.c")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", 60).ParseToken(tok)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		SubjectID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenManager("k", 60).ParseToken(tok)
	assert.Error(t, err)
}

func TestParseToken_RejectsForeignSigningMethod(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{SubjectID: "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenManager("k", 60).ParseToken(tok)
	assert.Error(t, err)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("k", 60).ParseToken("not.a.jwt")
	assert.Error(t, err)
}
