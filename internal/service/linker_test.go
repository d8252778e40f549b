package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"complyhub/internal/apperr"
	"complyhub/internal/model"
	"complyhub/internal/repository"
	repoMocks "complyhub/internal/repository/mocks"
)

func newLinker(docs *repoMocks.MockDocumentRepository, links *repoMocks.MockLinkRepository) *linkerService {
	s := NewLinkerService(docs, links, nil, nullLogger()).(*linkerService)
	s.now = fixedClock
	return s
}

func TestLinkerService_AutoLink(t *testing.T) {
	doc := &model.Document{ID: "d1", TenantID: "t1", DocumentTypeCode: "INSPECTION", Title: "Incident report"}

	t.Run("confidence follows strongest signal", func(t *testing.T) {
		links := new(repoMocks.MockLinkRepository)
		var got []model.AuditElementLink
		links.On("InsertAuto", ctx, mock.Anything).
			Run(func(args mock.Arguments) { got = args.Get(1).([]model.AuditElementLink) }).
			Return([]model.AuditElementLink{{DocumentID: "d1", ElementNumber: 9}}, nil)

		created, err := newLinker(nil, links).AutoLink(ctx, doc, "the fire drill was completed")
		require.NoError(t, err)
		assert.Len(t, created, 1)

		byElement := map[int]int{}
		for _, l := range got {
			assert.Equal(t, model.LinkSourceAuto, l.Source)
			assert.Equal(t, "d1", l.DocumentID)
			assert.Nil(t, l.CreatedBy)
			assert.Equal(t, fixedNow, l.CreatedAt)
			byElement[l.ElementNumber] = l.Confidence
		}
		assert.Equal(t, map[int]int{8: ConfidenceBody, 9: ConfidenceTypeCode, 10: ConfidenceTitle}, byElement)
	})

	t.Run("repeat call writes nothing new", func(t *testing.T) {
		links := new(repoMocks.MockLinkRepository)
		links.On("InsertAuto", ctx, mock.Anything).Return([]model.AuditElementLink{}, nil)

		created, err := newLinker(nil, links).AutoLink(ctx, doc, "")
		require.NoError(t, err)
		assert.Empty(t, created)
	})

	t.Run("no candidates skips the store", func(t *testing.T) {
		links := new(repoMocks.MockLinkRepository)
		created, err := newLinker(nil, links).AutoLink(ctx, &model.Document{ID: "d2", DocumentTypeCode: "MISC", Title: "Floor plan"}, "")
		require.NoError(t, err)
		assert.Empty(t, created)
		links.AssertNotCalled(t, "InsertAuto", mock.Anything, mock.Anything)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		links := new(repoMocks.MockLinkRepository)
		links.On("InsertAuto", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, err := newLinker(nil, links).AutoLink(ctx, doc, "")
		assert.True(t, apperr.Is(err, apperr.KindInternal))
	})
}

func TestLinkerService_ManualLink(t *testing.T) {
	doc := &model.Document{ID: "d1", TenantID: "t1"}

	tests := []struct {
		name     string
		caller   model.Caller
		element  int
		setup    func(docs *repoMocks.MockDocumentRepository, links *repoMocks.MockLinkRepository)
		wantKind apperr.Kind
	}{
		{
			name:    "creates manual link",
			caller:  supervisor,
			element: 5,
			setup: func(docs *repoMocks.MockDocumentRepository, links *repoMocks.MockLinkRepository) {
				docs.On("FindByID", ctx, "t1", "d1").Return(doc, nil)
				links.On("UpsertManual", ctx, mock.MatchedBy(func(l model.AuditElementLink) bool {
					return l.Source == model.LinkSourceManual && l.Confidence == 100 &&
						l.ElementNumber == 5 && l.CreatedBy != nil && *l.CreatedBy == "u-sup"
				})).Return(&model.AuditElementLink{ID: "l1", ElementNumber: 5, Source: model.LinkSourceManual}, nil)
			},
		},
		{
			name:     "worker is forbidden",
			caller:   worker,
			element:  5,
			setup:    func(*repoMocks.MockDocumentRepository, *repoMocks.MockLinkRepository) {},
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "element out of range",
			caller:   supervisor,
			element:  15,
			setup:    func(*repoMocks.MockDocumentRepository, *repoMocks.MockLinkRepository) {},
			wantKind: apperr.KindValidation,
		},
		{
			name:    "document in another tenant",
			caller:  supervisor,
			element: 5,
			setup: func(docs *repoMocks.MockDocumentRepository, links *repoMocks.MockLinkRepository) {
				docs.On("FindByID", ctx, "t1", "d1").Return(nil, repository.ErrNotFound)
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name:    "duplicate manual link",
			caller:  supervisor,
			element: 5,
			setup: func(docs *repoMocks.MockDocumentRepository, links *repoMocks.MockLinkRepository) {
				docs.On("FindByID", ctx, "t1", "d1").Return(doc, nil)
				links.On("UpsertManual", ctx, mock.Anything).Return(nil, repository.ErrConflict)
			},
			wantKind: apperr.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := new(repoMocks.MockDocumentRepository)
			links := new(repoMocks.MockLinkRepository)
			tt.setup(docs, links)

			link, err := newLinker(docs, links).ManualLink(ctx, tt.caller, "d1", tt.element)
			if tt.wantKind != "" {
				assert.True(t, apperr.Is(err, tt.wantKind), "got %v", err)
				assert.Nil(t, link)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "l1", link.ID)
			docs.AssertExpectations(t)
			links.AssertExpectations(t)
		})
	}
}

func TestLinkerService_Unlink(t *testing.T) {
	doc := &model.Document{ID: "d1", TenantID: "t1"}

	t.Run("removes link", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		links := new(repoMocks.MockLinkRepository)
		docs.On("FindByID", ctx, "t1", "d1").Return(doc, nil)
		links.On("Delete", ctx, "d1", 9).Return(int64(2), nil)

		assert.NoError(t, newLinker(docs, links).Unlink(ctx, supervisor, "d1", 9))
	})

	t.Run("nothing to remove", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		links := new(repoMocks.MockLinkRepository)
		docs.On("FindByID", ctx, "t1", "d1").Return(doc, nil)
		links.On("Delete", ctx, "d1", 9).Return(int64(0), nil)

		err := newLinker(docs, links).Unlink(ctx, supervisor, "d1", 9)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestLinkerService_ListLinks(t *testing.T) {
	docs := new(repoMocks.MockDocumentRepository)
	links := new(repoMocks.MockLinkRepository)
	docs.On("FindByID", ctx, "t1", "d1").Return(&model.Document{ID: "d1"}, nil)
	links.On("ListByDocument", ctx, "d1").Return([]model.AuditElementLink{{ElementNumber: 4}, {ElementNumber: 9}}, nil)

	got, err := newLinker(docs, links).ListLinks(ctx, worker, "d1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
