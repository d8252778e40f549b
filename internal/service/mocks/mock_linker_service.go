package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
)

type MockLinkerService struct {
	mock.Mock
}

func (m *MockLinkerService) AutoLink(ctx context.Context, doc *model.Document, extractedText string) ([]model.AuditElementLink, error) {
	args := m.Called(ctx, doc, extractedText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditElementLink), args.Error(1)
}

func (m *MockLinkerService) ManualLink(ctx context.Context, caller model.Caller, documentID string, elementNumber int) (*model.AuditElementLink, error) {
	args := m.Called(ctx, caller, documentID, elementNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditElementLink), args.Error(1)
}

func (m *MockLinkerService) Unlink(ctx context.Context, caller model.Caller, documentID string, elementNumber int) error {
	args := m.Called(ctx, caller, documentID, elementNumber)
	return args.Error(0)
}

func (m *MockLinkerService) ListLinks(ctx context.Context, caller model.Caller, documentID string) ([]model.AuditElementLink, error) {
	args := m.Called(ctx, caller, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditElementLink), args.Error(1)
}
