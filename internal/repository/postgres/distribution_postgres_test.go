package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

var distributionCols = []string{
	"id", "tenant_id", "document_id", "recipient_id", "distributed_at", "acknowledged",
	"acknowledged_at", "reminder_count", "last_reminder_at", "required_by_date",
}

func TestDistributionPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDistributionPostgres(db)

	rows := []model.Distribution{
		{ID: "d-1", TenantID: "tenant-1", DocumentID: "doc-1", RecipientID: "user-a", DistributedAt: fixedNow},
		{ID: "d-2", TenantID: "tenant-1", DocumentID: "doc-1", RecipientID: "user-b", DistributedAt: fixedNow},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO distributions (.+) ON CONFLICT").
		WithArgs("d-1", "tenant-1", "doc-1", "user-a", fixedNow, nil).
		WillReturnRows(sqlmock.NewRows(distributionCols).
			AddRow("d-1", "tenant-1", "doc-1", "user-a", fixedNow, false, nil, 0, nil, nil))
	mock.ExpectQuery("INSERT INTO distributions (.+) ON CONFLICT").
		WithArgs("d-2", "tenant-1", "doc-1", "user-b", fixedNow, nil).
		WillReturnRows(sqlmock.NewRows(distributionCols))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), rows)

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "user-a", created[0].RecipientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistributionPostgres_RemindPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDistributionPostgres(db)
	gap := fixedNow.Add(-24 * time.Hour)

	mock.ExpectQuery("UPDATE distributions SET reminder_count = reminder_count \\+ 1").
		WithArgs("tenant-1", "doc-1", fixedNow, gap, nil).
		WillReturnRows(sqlmock.NewRows(distributionCols).
			AddRow("d-1", "tenant-1", "doc-1", "user-a", fixedNow, false, nil, 2, fixedNow, nil).
			AddRow("d-3", "tenant-1", "doc-1", "user-c", fixedNow, false, nil, 1, fixedNow, nil))

	reminded, err := repo.RemindPending(context.Background(), "tenant-1", "doc-1", fixedNow, &gap, nil)

	require.NoError(t, err)
	assert.Len(t, reminded, 2)
	assert.Equal(t, 2, reminded[0].ReminderCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistributionPostgres_RemindPendingOverdueOnly(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDistributionPostgres(db)
	gap := fixedNow.Add(-24 * time.Hour)
	due := fixedNow

	mock.ExpectQuery(`AND \(\$5::timestamptz IS NULL OR required_by_date < \$5\)`).
		WithArgs("tenant-1", "doc-1", fixedNow, gap, due).
		WillReturnRows(sqlmock.NewRows(distributionCols).
			AddRow("d-1", "tenant-1", "doc-1", "user-a", fixedNow, false, nil, 1, fixedNow, fixedNow.Add(-48*time.Hour)))

	reminded, err := repo.RemindPending(context.Background(), "tenant-1", "doc-1", fixedNow, &gap, &due)

	require.NoError(t, err)
	require.Len(t, reminded, 1)
	assert.Equal(t, "d-1", reminded[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistributionPostgres_Acknowledge(t *testing.T) {
	ctx := context.Background()

	t.Run("first acknowledgment", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDistributionPostgres(db)

		mock.ExpectQuery("UPDATE distributions SET acknowledged = true").
			WithArgs("tenant-1", "d-1", fixedNow).
			WillReturnRows(sqlmock.NewRows(distributionCols).
				AddRow("d-1", "tenant-1", "doc-1", "user-a", fixedNow, true, fixedNow, 0, nil, nil))

		d, err := repo.Acknowledge(ctx, "tenant-1", "d-1", fixedNow)

		require.NoError(t, err)
		assert.True(t, d.Acknowledged)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already acknowledged keeps first timestamp", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDistributionPostgres(db)
		earlier := fixedNow.Add(-time.Hour)

		mock.ExpectQuery("UPDATE distributions SET acknowledged = true").
			WillReturnRows(sqlmock.NewRows(distributionCols))
		mock.ExpectQuery("SELECT (.+) FROM distributions WHERE tenant_id = \\$1 AND id = \\$2").
			WithArgs("tenant-1", "d-1").
			WillReturnRows(sqlmock.NewRows(distributionCols).
				AddRow("d-1", "tenant-1", "doc-1", "user-a", fixedNow, true, earlier, 0, nil, nil))

		d, err := repo.Acknowledge(ctx, "tenant-1", "d-1", fixedNow)

		require.NoError(t, err)
		require.NotNil(t, d.AcknowledgedAt)
		assert.Equal(t, earlier, *d.AcknowledgedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown row", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDistributionPostgres(db)

		mock.ExpectQuery("UPDATE distributions SET acknowledged = true").
			WillReturnRows(sqlmock.NewRows(distributionCols))
		mock.ExpectQuery("SELECT (.+) FROM distributions").
			WillReturnRows(sqlmock.NewRows(distributionCols))

		_, err := repo.Acknowledge(ctx, "tenant-1", "d-404", fixedNow)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDistributionPostgres_OverdueDocuments(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDistributionPostgres(db)
	cutoff := fixedNow.Add(-24 * time.Hour)

	mock.ExpectQuery("SELECT DISTINCT tenant_id, document_id FROM distributions").
		WithArgs(fixedNow, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "document_id"}).
			AddRow("tenant-1", "doc-1").
			AddRow("tenant-2", "doc-7"))

	refs, err := repo.OverdueDocuments(context.Background(), fixedNow, cutoff)

	require.NoError(t, err)
	assert.Equal(t, []repository.DocumentRef{
		{TenantID: "tenant-1", DocumentID: "doc-1"},
		{TenantID: "tenant-2", DocumentID: "doc-7"},
	}, refs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
