package mocks

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

// MockJWTManager is a mock of the JWTManager.
// It simulates token operations in tests.
type MockJWTManager struct {
	mock.Mock
}

// GenerateClaims returns mocked claims.
func (m *MockJWTManager) GenerateClaims(userId, username string) jwt.Claims {
	args := m.Called(userId, username)
	return args.Get(0).(jwt.Claims)
}

// GenerateJWT returns a mocked token string and an optional error.
func (m *MockJWTManager) GenerateJWT(claims jwt.Claims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

// ValidateJWT returns mocked claims and an optional error.
func (m *MockJWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(jwt.Claims), args.Error(1)
}
