package notify

import (
	"github.com/stretchr/testify/mock"
)

// Ensure MockNotifier implements Notifier
var _ Notifier = (*MockNotifier)(nil)

// MockNotifier is a mock implementation for testing and extends `mock.Mock`
type MockNotifier struct {
	mock.Mock
}

// Loading (Mocked)
func (m *MockNotifier) Loading(message string) string {
	args := m.Called(message)
	return args.String(0)
}

// Success (Mocked)
func (m *MockNotifier) Success(correlationID, message string) {
	m.Called(correlationID, message)
}

// Error (Mocked)
func (m *MockNotifier) Error(correlationID, message string) {
	m.Called(correlationID, message)
}
