package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document, firstVersion *model.DocumentVersion) (*model.Document, error) {
	args := m.Called(ctx, doc, firstVersion)
	if fn, ok := args.Get(0).(func(context.Context, *model.Document, *model.DocumentVersion) *model.Document); ok {
		return fn(ctx, doc, firstVersion), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Document, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]model.Document, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByControlNumber(ctx context.Context, tenantID, controlNumber string) (*model.Document, error) {
	args := m.Called(ctx, tenantID, controlNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindReferencing(ctx context.Context, tenantID, documentID string, statuses []model.Status) ([]model.Document, error) {
	args := m.Called(ctx, tenantID, documentID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, tenantID string, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, tenantID, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) CountControlNumberPrefix(ctx context.Context, tenantID, prefix string) (int, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, tenantID, id string, from, to model.Status, at time.Time) (*model.Document, error) {
	args := m.Called(ctx, tenantID, id, from, to, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) Supersede(ctx context.Context, tenantID, oldControlNumber, newControlNumber string, at time.Time) (*model.Document, *model.Document, error) {
	args := m.Called(ctx, tenantID, oldControlNumber, newControlNumber, at)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Document), args.Get(1).(*model.Document), args.Error(2)
}

func (m *MockDocumentRepository) RecordView(ctx context.Context, tenantID, id string, at time.Time) error {
	return m.Called(ctx, tenantID, id, at).Error(0)
}

func (m *MockDocumentRepository) DueForReview(ctx context.Context, tenantID string, from, to time.Time) ([]model.Document, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListAfter(ctx context.Context, tenantID string, typeCodes []string, afterID string, limit int) ([]model.Document, error) {
	args := m.Called(ctx, tenantID, typeCodes, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) AddVersion(ctx context.Context, tenantID string, v *model.DocumentVersion) (*model.DocumentVersion, error) {
	args := m.Called(ctx, tenantID, v)
	if fn, ok := args.Get(0).(func(context.Context, string, *model.DocumentVersion) *model.DocumentVersion); ok {
		return fn(ctx, tenantID, v), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentRepository) CurrentVersion(ctx context.Context, tenantID, documentID string) (*model.DocumentVersion, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentRepository) ListVersions(ctx context.Context, tenantID, documentID string) ([]model.DocumentVersion, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentRepository) SetExtractedText(ctx context.Context, versionID, text string) error {
	return m.Called(ctx, versionID, text).Error(0)
}
