package managers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundtrip(t *testing.T) {
	jwtMgr := NewJWTManagerWithSecret("unit-test-secret")

	token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims("user-123", "testuser"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtMgr.ValidateJWT(token)
	require.NoError(t, err)

	subject, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)

	mapClaims, ok := claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "testuser", mapClaims["username"])

	expiry, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiry.Time, time.Minute)
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	jwtMgr := NewJWTManagerWithSecret("unit-test-secret")

	token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims("user-123", "testuser"))
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = jwtMgr.ValidateJWT(tampered)
	assert.Error(t, err)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	signer := NewJWTManagerWithSecret("secret-one")
	verifier := NewJWTManagerWithSecret("secret-two")

	token, err := signer.GenerateJWT(signer.GenerateClaims("user-123", "testuser"))
	require.NoError(t, err)

	_, err = verifier.ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	jwtMgr := NewJWTManagerWithSecret("unit-test-secret")

	claims := jwt.MapClaims{
		"iss":      "mindwell-server",
		"iat":      time.Now().Add(-48 * time.Hour).Unix(),
		"exp":      time.Now().Add(-24 * time.Hour).Unix(),
		"sub":      "user-123",
		"username": "testuser",
	}
	token, err := jwtMgr.GenerateJWT(claims)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTRejectsUnsignedToken(t *testing.T) {
	jwtMgr := NewJWTManagerWithSecret("unit-test-secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-123"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(token)
	assert.Error(t, err)
}
