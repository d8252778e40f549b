package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"complyhub/internal/model"
	"complyhub/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, caller model.Caller, in service.CreateDocumentInput, file *service.FileInput) (*model.Document, error) {
	args := m.Called(ctx, caller, in, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, caller model.Caller, id string) (*model.Document, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, caller model.Caller, q service.ListQuery) (*service.DocumentListResult, error) {
	args := m.Called(ctx, caller, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Search(ctx context.Context, caller model.Caller, query string, q service.ListQuery) (*service.DocumentListResult, error) {
	args := m.Called(ctx, caller, query, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) AddVersion(ctx context.Context, caller model.Caller, documentID string, file service.FileInput) (*model.DocumentVersion, error) {
	args := m.Called(ctx, caller, documentID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) ListVersions(ctx context.Context, caller model.Caller, documentID string) ([]model.DocumentVersion, error) {
	args := m.Called(ctx, caller, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, caller model.Caller, documentID string, versionNumber int) (string, error) {
	args := m.Called(ctx, caller, documentID, versionNumber)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) SetStatus(ctx context.Context, caller model.Caller, id string, status model.Status) (*model.Document, error) {
	args := m.Called(ctx, caller, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Supersede(ctx context.Context, caller model.Caller, oldControlNumber, newControlNumber string) (*service.SupersedeResult, error) {
	args := m.Called(ctx, caller, oldControlNumber, newControlNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SupersedeResult), args.Error(1)
}

func (m *MockDocumentService) FindRelated(ctx context.Context, caller model.Caller, id string) (*model.RelatedDocuments, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RelatedDocuments), args.Error(1)
}

func (m *MockDocumentService) ListDueForReview(ctx context.Context, caller model.Caller, daysAhead int) ([]model.Document, error) {
	args := m.Called(ctx, caller, daysAhead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}
