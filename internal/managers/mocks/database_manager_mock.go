// Package mocks provides testify mocks for the manager interfaces so that
// handlers and routes can be tested without real collaborators.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"mindwell-server/internal/interfaces"
)

// MockDatabaseManager is a mock of the DatabaseManager.
// It is used together with pgxmock, which stands in for the pool itself.
type MockDatabaseManager struct {
	mock.Mock
}

// GetPool returns the mocked connection pool.
func (m *MockDatabaseManager) GetPool() interfaces.PgxPoolIface {
	args := m.Called()
	return args.Get(0).(interfaces.PgxPoolIface)
}
