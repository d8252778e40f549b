package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

func TestDocumentPostgres_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("with first version", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		doc := &model.Document{
			ID:               "doc-1",
			TenantID:         "tenant-1",
			ControlNumber:    "DOC-INS-001",
			Title:            "Monthly Site Inspection",
			DocumentTypeCode: "INS",
			Status:           model.StatusDraft,
			Origin:           model.OriginManual,
			CurrentVersion:   1,
			Elements:         []int{9},
			CreatedBy:        "user-1",
			CreatedAt:        fixedNow,
			UpdatedAt:        fixedNow,
		}
		version := &model.DocumentVersion{
			ID:            "ver-1",
			FileReference: "documents/tenant-1/doc-1/v1",
			ContentType:   "text/plain",
			CreatedBy:     "user-1",
			CreatedAt:     fixedNow,
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(documentRow("doc-1", "DOC-INS-001", "draft")...))
		mock.ExpectQuery("INSERT INTO document_versions").
			WithArgs("ver-1", "doc-1", 1, version.FileReference, "text/plain", nil, "user-1", fixedNow).
			WillReturnRows(sqlmock.NewRows(versionCols).
				AddRow("ver-1", "doc-1", 1, version.FileReference, "text/plain", nil, "user-1", fixedNow))
		mock.ExpectCommit()

		got, err := repo.Create(ctx, doc, version)

		require.NoError(t, err)
		assert.Equal(t, "DOC-INS-001", got.ControlNumber)
		assert.Equal(t, []int{9}, got.Elements)
		assert.Equal(t, []string{"inspection"}, got.Keywords)
		assert.Empty(t, got.RelatedDocumentIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate control number", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_documents_tenant_control_number"})
		mock.ExpectRollback()

		got, err := repo.Create(ctx, &model.Document{ID: "doc-2", ControlNumber: "doc-ins-001"}, nil)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE tenant_id = \\$1 AND id = \\$2").
			WithArgs("tenant-1", "doc-1").
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(documentRow("doc-1", "DOC-INS-001", "active")...))

		doc, err := repo.FindByID(ctx, "tenant-1", "doc-1")

		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, doc.Status)
		assert.Equal(t, model.OriginManual, doc.Origin)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE tenant_id = \\$1 AND id = \\$2").
			WithArgs("tenant-2", "doc-1").
			WillReturnRows(sqlmock.NewRows(documentCols))

		doc, err := repo.FindByID(ctx, "tenant-2", "doc-1")

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	folder := "folder-7"

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE tenant_id = \\$1 AND status IN").
		WithArgs("tenant-1", `["active","approved"]`, folder, "%inspect%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE (.+) ORDER BY updated_at DESC, id DESC LIMIT \\$5 OFFSET \\$6").
		WithArgs("tenant-1", `["active","approved"]`, folder, "%inspect%", 20, 40).
		WillReturnRows(sqlmock.NewRows(documentCols).AddRow(documentRow("doc-1", "DOC-INS-001", "active")...))

	res, err := repo.List(context.Background(), "tenant-1", repository.DocumentFilter{
		Statuses: []model.Status{model.StatusActive, model.StatusApproved},
		FolderID: &folder,
		Query:    "  inspect ",
	}, repository.PageQuery{Limit: 20, Offset: 40})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, escapeLike("50% off_now"))
}

func TestDocumentPostgres_FindReferencing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("jsonb_exists\\(related_document_ids, \\$2\\)").
		WithArgs("tenant-1", "doc-9", `["active","approved"]`).
		WillReturnRows(sqlmock.NewRows(documentCols).
			AddRow(documentRow("doc-1", "DOC-INS-001", "active")...).
			AddRow(documentRow("doc-2", "DOC-INS-002", "approved")...))

	docs, err := repo.FindReferencing(context.Background(), "tenant-1", "doc-9",
		[]model.Status{model.StatusActive, model.StatusApproved})

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("applied", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery("UPDATE documents SET status = \\$4").
			WithArgs("tenant-1", "doc-1", "draft", "active", fixedNow).
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(documentRow("doc-1", "DOC-INS-001", "active")...))

		doc, err := repo.UpdateStatus(ctx, "tenant-1", "doc-1", model.StatusDraft, model.StatusActive, fixedNow)

		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, doc.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status moved underneath", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery("UPDATE documents SET status = \\$4").
			WillReturnRows(sqlmock.NewRows(documentCols))
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE tenant_id = \\$1 AND id = \\$2").
			WithArgs("tenant-1", "doc-1").
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(documentRow("doc-1", "DOC-INS-001", "approved")...))

		doc, err := repo.UpdateStatus(ctx, "tenant-1", "doc-1", model.StatusDraft, model.StatusActive, fixedNow)

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing document", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery("UPDATE documents SET status = \\$4").
			WillReturnRows(sqlmock.NewRows(documentCols))
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE tenant_id = \\$1 AND id = \\$2").
			WillReturnRows(sqlmock.NewRows(documentCols))

		_, err := repo.UpdateStatus(ctx, "tenant-1", "doc-1", model.StatusDraft, model.StatusActive, fixedNow)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDocumentPostgres_Supersede(t *testing.T) {
	ctx := context.Background()

	t.Run("both pointers set", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		oldRow := documentRow("doc-1", "DOC-INS-001", "active")
		newRow := documentRow("doc-2", "DOC-INS-002", "draft")

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs("tenant-1", "doc-ins-001", "DOC-INS-002").
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(oldRow...).AddRow(newRow...))
		mock.ExpectQuery("UPDATE documents SET superseded_by_control_number = \\$3").
			WithArgs("tenant-1", "doc-1", "DOC-INS-002", fixedNow).
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(oldRow...))
		mock.ExpectQuery("UPDATE documents SET supersedes_control_number = \\$3").
			WithArgs("tenant-1", "doc-2", "DOC-INS-001", fixedNow).
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(newRow...))
		mock.ExpectCommit()

		oldDoc, newDoc, err := repo.Supersede(ctx, "tenant-1", "doc-ins-001", "DOC-INS-002", fixedNow)

		require.NoError(t, err)
		assert.Equal(t, "doc-1", oldDoc.ID)
		assert.Equal(t, "doc-2", newDoc.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("old already superseded by another", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		oldRow := documentRow("doc-1", "DOC-INS-001", "active")
		oldRow[17] = "DOC-INS-003"

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow(oldRow...).
				AddRow(documentRow("doc-2", "DOC-INS-002", "draft")...))
		mock.ExpectRollback()

		_, _, err := repo.Supersede(ctx, "tenant-1", "DOC-INS-001", "DOC-INS-002", fixedNow)

		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one side missing rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(documentCols).AddRow(documentRow("doc-1", "DOC-INS-001", "active")...))
		mock.ExpectRollback()

		_, _, err := repo.Supersede(ctx, "tenant-1", "DOC-INS-001", "DOC-INS-404", fixedNow)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_AddVersion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	text := "quarterly inspection notes"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT current_version FROM documents (.+) FOR UPDATE").
		WithArgs("tenant-1", "doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"current_version"}).AddRow(2))
	mock.ExpectQuery("INSERT INTO document_versions").
		WithArgs("ver-3", "doc-1", 3, "documents/tenant-1/doc-1/v3", "text/plain", &text, "user-1", fixedNow).
		WillReturnRows(sqlmock.NewRows(versionCols).
			AddRow("ver-3", "doc-1", 3, "documents/tenant-1/doc-1/v3", "text/plain", text, "user-1", fixedNow))
	mock.ExpectExec("UPDATE documents SET current_version = \\$3").
		WithArgs("tenant-1", "doc-1", 3, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	v, err := repo.AddVersion(context.Background(), "tenant-1", &model.DocumentVersion{
		ID:            "ver-3",
		DocumentID:    "doc-1",
		FileReference: "documents/tenant-1/doc-1/v3",
		ContentType:   "text/plain",
		ExtractedText: &text,
		CreatedBy:     "user-1",
		CreatedAt:     fixedNow,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, v.VersionNumber)
	assert.True(t, v.HasText())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_SetExtractedText(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	mock.ExpectExec("UPDATE document_versions SET extracted_text").
		WithArgs("ver-x", "text").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.SetExtractedText(context.Background(), "ver-x", "text"), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_CountControlNumberPrefix(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE tenant_id = \\$1 AND upper\\(control_number\\) LIKE \\$2").
		WithArgs("tenant-1", "DOC-INS-%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountControlNumberPrefix(context.Background(), "tenant-1", "doc-ins-")

	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
