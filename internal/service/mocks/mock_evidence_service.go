package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/service"
)

type MockEvidenceService struct {
	mock.Mock
}

func (m *MockEvidenceService) SummarizeElement(ctx context.Context, caller model.Caller, elementNumber int) (*model.ElementEvidenceSummary, error) {
	args := m.Called(ctx, caller, elementNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ElementEvidenceSummary), args.Error(1)
}

func (m *MockEvidenceService) SummarizeAll(ctx context.Context, caller model.Caller) ([]model.ElementEvidenceSummary, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ElementEvidenceSummary), args.Error(1)
}

func (m *MockEvidenceService) RecordEvidence(ctx context.Context, caller model.Caller, in service.RecordEvidenceInput) (*model.EvidenceRecord, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EvidenceRecord), args.Error(1)
}
