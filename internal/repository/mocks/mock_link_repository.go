package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
)

type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) ListByDocument(ctx context.Context, documentID string) ([]model.AuditElementLink, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditElementLink), args.Error(1)
}

func (m *MockLinkRepository) InsertAuto(ctx context.Context, links []model.AuditElementLink) ([]model.AuditElementLink, error) {
	args := m.Called(ctx, links)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditElementLink), args.Error(1)
}

func (m *MockLinkRepository) UpsertManual(ctx context.Context, link model.AuditElementLink) (*model.AuditElementLink, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditElementLink), args.Error(1)
}

func (m *MockLinkRepository) Delete(ctx context.Context, documentID string, elementNumber int) (int64, error) {
	args := m.Called(ctx, documentID, elementNumber)
	return args.Get(0).(int64), args.Error(1)
}
