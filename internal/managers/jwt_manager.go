package managers

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

// insecureDefaultSecret is the fallback signing key used when JWT_SECRET is
// not set. It mirrors the historical default and must never reach production.
const insecureDefaultSecret = "your-secret-key"

const tokenLifetime = 24 * time.Hour

// JWTMgr handles token generation, signing, and validation.
type JWTMgr interface {
	GenerateClaims(userId, username string) jwt.Claims
	GenerateJWT(claims jwt.Claims) (string, error)
	ValidateJWT(tokenString string) (jwt.Claims, error)
}

// JWTManager signs and verifies HS256 tokens with a shared secret.
type JWTManager struct {
	secret []byte
}

// NewJWTManager creates a new JWTManager with the signing secret from the
// environment. A missing secret falls back to the insecure default and is
// loudly warned about.
func NewJWTManager() JWTMgr {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Warn("JWT_SECRET not set, falling back to the insecure default signing key")
		secret = insecureDefaultSecret
	}

	return &JWTManager{secret: []byte(secret)}
}

// NewJWTManagerWithSecret creates a JWTManager with an explicit secret.
func NewJWTManagerWithSecret(secret string) JWTMgr {
	return &JWTManager{secret: []byte(secret)}
}

// GenerateClaims generates the standard claims: subject, username,
// issued-at and a 24-hour expiry.
func (jm *JWTManager) GenerateClaims(userId, username string) jwt.Claims {
	return jwt.MapClaims{
		"iss":      "mindwell-server",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(tokenLifetime).Unix(),
		"sub":      userId,
		"username": username,
	}
}

// GenerateJWT generates a new JWT with the given claims.
func (jm *JWTManager) GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// ValidateJWT validates the given JWT and returns the claims if valid.
// It fails on a bad signature, a malformed payload, or an expired token.
func (jm *JWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}
		return jm.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return token.Claims, nil
}
