package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/notify"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipientID string, msg notify.Message) error {
	return m.Called(ctx, recipientID, msg).Error(0)
}
