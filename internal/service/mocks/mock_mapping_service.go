package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/service"
)

type MockMappingService struct {
	mock.Mock
}

func (m *MockMappingService) Create(ctx context.Context, caller model.Caller, in service.MappingInput) (*model.EvidenceMapping, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceMapping), args.Error(1)
}

func (m *MockMappingService) List(ctx context.Context, caller model.Caller, activeOnly bool) ([]model.EvidenceMapping, error) {
	args := m.Called(ctx, caller, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EvidenceMapping), args.Error(1)
}

func (m *MockMappingService) Update(ctx context.Context, caller model.Caller, id string, patch service.MappingPatch) (*model.EvidenceMapping, error) {
	args := m.Called(ctx, caller, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceMapping), args.Error(1)
}
