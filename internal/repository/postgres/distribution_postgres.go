package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

const distributionColumns = `id, tenant_id, document_id, recipient_id, distributed_at, acknowledged,
		acknowledged_at, reminder_count, last_reminder_at, required_by_date`

// DistributionPostgres stores distribution rows.
type DistributionPostgres struct {
	db *sql.DB
}

func NewDistributionPostgres(db *sql.DB) *DistributionPostgres {
	return &DistributionPostgres{db: db}
}

var _ repository.DistributionRepository = (*DistributionPostgres)(nil)

// Create inserts the rows in one transaction. Recipients that already hold a row for the
// document are skipped and missing from the result.
func (r *DistributionPostgres) Create(ctx context.Context, rows []model.Distribution) ([]model.Distribution, error) {
	q := `
		INSERT INTO distributions (id, tenant_id, document_id, recipient_id, distributed_at, required_by_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (document_id, recipient_id) DO NOTHING
		RETURNING ` + distributionColumns

	created := make([]model.Distribution, 0, len(rows))
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, d := range rows {
			stored, err := scanDistribution(tx.QueryRowContext(ctx, q,
				d.ID, d.TenantID, d.DocumentID, d.RecipientID, d.DistributedAt, d.RequiredByDate))
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return translate(err)
			}
			created = append(created, *stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *DistributionPostgres) ListByDocument(ctx context.Context, tenantID, documentID string) ([]model.Distribution, error) {
	q := `SELECT ` + distributionColumns + `
		FROM distributions
		WHERE tenant_id = $1 AND document_id = $2
		ORDER BY distributed_at, recipient_id`
	return r.query(ctx, q, tenantID, documentID)
}

func (r *DistributionPostgres) RemindPending(ctx context.Context, tenantID, documentID string, at time.Time, remindedBefore, dueBefore *time.Time) ([]model.Distribution, error) {
	q := `UPDATE distributions
		SET reminder_count = reminder_count + 1, last_reminder_at = $3
		WHERE tenant_id = $1 AND document_id = $2 AND acknowledged = false
		  AND ($4::timestamptz IS NULL OR last_reminder_at IS NULL OR last_reminder_at < $4)
		  AND ($5::timestamptz IS NULL OR required_by_date < $5)
		RETURNING ` + distributionColumns
	return r.query(ctx, q, tenantID, documentID, at, remindedBefore, dueBefore)
}

// Acknowledge returns the stored row unchanged when it was already acknowledged.
func (r *DistributionPostgres) Acknowledge(ctx context.Context, tenantID, id string, at time.Time) (*model.Distribution, error) {
	q := `UPDATE distributions
		SET acknowledged = true, acknowledged_at = $3
		WHERE tenant_id = $1 AND id = $2 AND acknowledged = false
		RETURNING ` + distributionColumns
	d, err := scanDistribution(r.db.QueryRowContext(ctx, q, tenantID, id, at))
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return r.FindByID(ctx, tenantID, id)
}

func (r *DistributionPostgres) FindByID(ctx context.Context, tenantID, id string) (*model.Distribution, error) {
	q := `SELECT ` + distributionColumns + ` FROM distributions WHERE tenant_id = $1 AND id = $2`
	d, err := scanDistribution(r.db.QueryRowContext(ctx, q, tenantID, id))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

func (r *DistributionPostgres) OverdueDocuments(ctx context.Context, now time.Time, remindedBefore time.Time) ([]repository.DocumentRef, error) {
	const q = `
		SELECT DISTINCT tenant_id, document_id
		FROM distributions
		WHERE acknowledged = false
		  AND required_by_date < $1
		  AND (last_reminder_at IS NULL OR last_reminder_at < $2)
		ORDER BY tenant_id, document_id`
	rows, err := r.db.QueryContext(ctx, q, now, remindedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]repository.DocumentRef, 0)
	for rows.Next() {
		var ref repository.DocumentRef
		if err := rows.Scan(&ref.TenantID, &ref.DocumentID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *DistributionPostgres) query(ctx context.Context, q string, args ...any) ([]model.Distribution, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Distribution, 0)
	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanDistribution(s scanner) (*model.Distribution, error) {
	var d model.Distribution
	if err := s.Scan(
		&d.ID,
		&d.TenantID,
		&d.DocumentID,
		&d.RecipientID,
		&d.DistributedAt,
		&d.Acknowledged,
		&d.AcknowledgedAt,
		&d.ReminderCount,
		&d.LastReminderAt,
		&d.RequiredByDate,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
