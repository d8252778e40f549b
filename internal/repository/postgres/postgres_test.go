package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"complyhub/internal/repository"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

var documentCols = []string{
	"id", "tenant_id", "control_number", "title", "document_type_code", "status", "origin",
	"current_version", "folder_id", "elements", "tags", "keywords", "effective_date", "expiry_date",
	"next_review_date", "related_document_ids", "supersedes_control_number",
	"superseded_by_control_number", "view_count", "last_viewed_at", "created_by", "created_at", "updated_at",
}

var versionCols = []string{
	"id", "document_id", "version_number", "file_reference", "content_type", "extracted_text", "created_by", "created_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func documentRow(id, controlNumber, status string) []driver.Value {
	return []driver.Value{
		id, "tenant-1", controlNumber, "Monthly Site Inspection", "INS", status, "manual",
		1, nil, []byte(`[9]`), []byte(`["site"]`), []byte(`["inspection"]`), nil, nil,
		nil, []byte(`[]`), nil,
		nil, 0, nil, "user-1", fixedNow, fixedNow,
	}
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505", ConstraintName: "uq_documents_tenant_control_number"}), repository.ErrConflict)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}

func TestJSONHelpers(t *testing.T) {
	s, err := toJSON[int](nil)
	assert.NoError(t, err)
	assert.Equal(t, "[]", s)

	out, err := fromJSON[string](nil)
	assert.NoError(t, err)
	assert.Empty(t, out)

	ids, err := fromJSON[int]([]byte(`[3,9]`))
	assert.NoError(t, err)
	assert.Equal(t, []int{3, 9}, ids)

	_, err = fromJSON[int]([]byte(`{`))
	assert.Error(t, err)
}
