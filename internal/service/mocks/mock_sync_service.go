package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/syncclient"
)

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) SyncTenant(ctx context.Context, caller model.Caller) (*syncclient.BulkResult, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*syncclient.BulkResult), args.Error(1)
}
