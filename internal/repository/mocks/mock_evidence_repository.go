package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

type MockEvidenceRepository struct {
	mock.Mock
}

func (m *MockEvidenceRepository) ElementCounts(ctx context.Context, tenantID string, elementNumber int, since, until time.Time) (repository.ElementCounts, error) {
	args := m.Called(ctx, tenantID, elementNumber, since, until)
	if fn, ok := args.Get(0).(func(context.Context, string, int, time.Time, time.Time) repository.ElementCounts); ok {
		return fn(ctx, tenantID, elementNumber, since, until), args.Error(1)
	}
	return args.Get(0).(repository.ElementCounts), args.Error(1)
}

func (m *MockEvidenceRepository) CreateRecord(ctx context.Context, rec *model.EvidenceRecord) (*model.EvidenceRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceRecord), args.Error(1)
}

type MockMappingRepository struct {
	mock.Mock
}

func (m *MockMappingRepository) Create(ctx context.Context, mp *model.EvidenceMapping) (*model.EvidenceMapping, error) {
	args := m.Called(ctx, mp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceMapping), args.Error(1)
}

func (m *MockMappingRepository) FindByID(ctx context.Context, tenantID, id string) (*model.EvidenceMapping, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceMapping), args.Error(1)
}

func (m *MockMappingRepository) List(ctx context.Context, tenantID string, activeOnly bool) ([]model.EvidenceMapping, error) {
	args := m.Called(ctx, tenantID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EvidenceMapping), args.Error(1)
}

func (m *MockMappingRepository) Update(ctx context.Context, mp *model.EvidenceMapping) (*model.EvidenceMapping, error) {
	args := m.Called(ctx, mp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceMapping), args.Error(1)
}
