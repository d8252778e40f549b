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

func TestEvidencePostgres_ElementCounts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEvidencePostgres(db)
	since := fixedNow.AddDate(0, 0, -90)

	mock.ExpectQuery(`WITH linked AS (.+) e\.record_date >= \$3 AND e\.record_date <= \$4 (.+) FROM linked`).
		WithArgs("tenant-1", 9, since, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"total", "converted", "manual", "recent"}).AddRow(4, 1, 3, 2))

	c, err := repo.ElementCounts(context.Background(), "tenant-1", 9, since, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, repository.ElementCounts{TotalForms: 4, ConvertedForms: 1, ManualForms: 3, RecentSubmissions: 2}, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvidencePostgres_CreateRecord(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEvidencePostgres(db)

	rec := &model.EvidenceRecord{
		ID:            "rec-1",
		TenantID:      "tenant-1",
		ElementNumber: 5,
		Source:        model.EvidenceSourceTraining,
		Title:         "Forklift refresher",
		RecordDate:    fixedNow,
		CreatedBy:     "user-1",
		CreatedAt:     fixedNow,
	}

	mock.ExpectQuery("INSERT INTO evidence_records").
		WithArgs("rec-1", "tenant-1", 5, "training", nil, "Forklift refresher", fixedNow, "user-1", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "element_number", "source", "reference_id", "title", "record_date", "created_by", "created_at"}).
			AddRow("rec-1", "tenant-1", 5, "training", nil, "Forklift refresher", fixedNow, "user-1", fixedNow))

	got, err := repo.CreateRecord(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, model.EvidenceSourceTraining, got.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMappingPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMappingPostgres(db)
	question := "Q-9.1"

	mock.ExpectQuery("SELECT (.+) FROM evidence_mappings WHERE tenant_id = \\$1 AND \\(\\$2 = false OR is_active = true\\)").
		WithArgs("tenant-1", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "element_number", "evidence_source", "source_id",
			"external_question_id", "category", "notes", "is_active", "created_at", "updated_at"}).
			AddRow("m-1", "tenant-1", 9, "document", nil, question, nil, nil, true, fixedNow, fixedNow))

	items, err := repo.List(context.Background(), "tenant-1", true)

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ExternalQuestionID)
	assert.Equal(t, question, *items[0].ExternalQuestionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMappingPostgres_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMappingPostgres(db)

	mock.ExpectQuery("UPDATE evidence_mappings").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Update(context.Background(), &model.EvidenceMapping{ID: "m-404", TenantID: "tenant-1", UpdatedAt: fixedNow})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
