package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/service"
)

type MockSchedulerService struct {
	mock.Mock
}

func (m *MockSchedulerService) Reviews(ctx context.Context, caller model.Caller, daysAhead int) (*service.ReviewBuckets, error) {
	args := m.Called(ctx, caller, daysAhead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewBuckets), args.Error(1)
}

func (m *MockSchedulerService) Distribute(ctx context.Context, caller model.Caller, documentID string, in service.DistributeInput) ([]model.Distribution, error) {
	args := m.Called(ctx, caller, documentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Distribution), args.Error(1)
}

func (m *MockSchedulerService) Remind(ctx context.Context, caller model.Caller, documentID string) (int, error) {
	args := m.Called(ctx, caller, documentID)
	return args.Int(0), args.Error(1)
}

func (m *MockSchedulerService) RemindOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSchedulerService) Acknowledge(ctx context.Context, caller model.Caller, distributionID string) (*model.Distribution, error) {
	args := m.Called(ctx, caller, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Distribution), args.Error(1)
}

func (m *MockSchedulerService) ListDistributions(ctx context.Context, caller model.Caller, documentID string) ([]service.DistributionView, error) {
	args := m.Called(ctx, caller, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.DistributionView), args.Error(1)
}
