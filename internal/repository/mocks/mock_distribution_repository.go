package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

type MockDistributionRepository struct {
	mock.Mock
}

func (m *MockDistributionRepository) Create(ctx context.Context, rows []model.Distribution) ([]model.Distribution, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Distribution, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) ListByDocument(ctx context.Context, tenantID, documentID string) ([]model.Distribution, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) RemindPending(ctx context.Context, tenantID, documentID string, at time.Time, remindedBefore, dueBefore *time.Time) ([]model.Distribution, error) {
	args := m.Called(ctx, tenantID, documentID, at, remindedBefore, dueBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) Acknowledge(ctx context.Context, tenantID, id string, at time.Time) (*model.Distribution, error) {
	args := m.Called(ctx, tenantID, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) OverdueDocuments(ctx context.Context, now time.Time, remindedBefore time.Time) ([]repository.DocumentRef, error) {
	args := m.Called(ctx, now, remindedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DocumentRef), args.Error(1)
}
