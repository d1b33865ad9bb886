package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockMailManager is a mock of the MailManager.
// It records the welcome mails that would have been sent.
type MockMailManager struct {
	mock.Mock
}

// SendWelcomeMail returns the configured error, if any.
func (m *MockMailManager) SendWelcomeMail(email, username string) error {
	args := m.Called(email, username)
	return args.Error(0)
}
