package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/service"
)

type MockReindexService struct {
	mock.Mock
}

func (m *MockReindexService) ReindexTenant(ctx context.Context, caller model.Caller, opts service.ReindexOptions) (*service.ReindexSummary, error) {
	args := m.Called(ctx, caller, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReindexSummary), args.Error(1)
}
