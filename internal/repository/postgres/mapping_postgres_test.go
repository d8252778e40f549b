package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

var mappingCols = []string{
	"id", "tenant_id", "element_number", "evidence_source", "source_id", "external_question_id",
	"category", "notes", "is_active", "created_at", "updated_at",
}

func TestMappingPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMappingPostgres(db)

	question := "Q-9.1"
	m := &model.EvidenceMapping{
		ID: "m-1", TenantID: "t1", ElementNumber: 9, EvidenceSource: model.EvidenceSourceDocument,
		ExternalQuestionID: &question, IsActive: true, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}

	mock.ExpectQuery("INSERT INTO evidence_mappings").
		WithArgs("m-1", "t1", 9, "document", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true, fixedNow, fixedNow).
		WillReturnRows(sqlmock.NewRows(mappingCols).
			AddRow("m-1", "t1", 9, "document", nil, "Q-9.1", nil, nil, true, fixedNow, fixedNow))

	out, err := repo.Create(context.Background(), m)

	require.NoError(t, err)
	require.NotNil(t, out.ExternalQuestionID)
	assert.Equal(t, "Q-9.1", *out.ExternalQuestionID)
	assert.Nil(t, out.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMappingPostgres_FindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMappingPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM evidence_mappings WHERE tenant_id = \\$1 AND id = \\$2").
		WithArgs("t1", "missing").
		WillReturnRows(sqlmock.NewRows(mappingCols))

	_, err := repo.FindByID(context.Background(), "t1", "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMappingPostgres_ListActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMappingPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM evidence_mappings").
		WithArgs("t1", true).
		WillReturnRows(sqlmock.NewRows(mappingCols).
			AddRow("m-1", "t1", 3, "form_submission", nil, "Q-3", "hazards", nil, true, fixedNow, fixedNow).
			AddRow("m-2", "t1", 9, "document", nil, "Q-9", nil, "inspections", true, fixedNow, fixedNow))

	items, err := repo.List(context.Background(), "t1", true)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.EvidenceSourceFormSubmission, items[0].EvidenceSource)
	assert.Equal(t, "inspections", *items[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMappingPostgres_ListEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMappingPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM evidence_mappings").
		WithArgs("t1", false).
		WillReturnRows(sqlmock.NewRows(mappingCols))

	items, err := repo.List(context.Background(), "t1", false)

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMappingPostgres_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMappingPostgres(db)

	m := &model.EvidenceMapping{
		ID: "m-1", TenantID: "t1", ElementNumber: 9, EvidenceSource: model.EvidenceSourceDocument,
		IsActive: false, UpdatedAt: fixedNow,
	}

	mock.ExpectQuery("UPDATE evidence_mappings").
		WithArgs("t1", "m-1", 9, "document", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), false, fixedNow).
		WillReturnRows(sqlmock.NewRows(mappingCols).
			AddRow("m-1", "t1", 9, "document", nil, nil, nil, nil, false, fixedNow, fixedNow))

	out, err := repo.Update(context.Background(), m)

	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}
