package postgres

import (
	"context"
	"database/sql"
	"time"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

// EvidencePostgres aggregates element evidence and stores evidence records.
type EvidencePostgres struct {
	db *sql.DB
}

func NewEvidencePostgres(db *sql.DB) *EvidencePostgres {
	return &EvidencePostgres{db: db}
}

var _ repository.EvidenceRepository = (*EvidencePostgres)(nil)

// ElementCounts reads every number of a summary in one round trip so the counts
// come from the same snapshot.
func (r *EvidencePostgres) ElementCounts(ctx context.Context, tenantID string, elementNumber int, since, until time.Time) (repository.ElementCounts, error) {
	const q = `
		WITH linked AS (
			SELECT d.id, d.origin
			FROM documents d
			WHERE d.tenant_id = $1
			  AND d.status IN ('active', 'approved')
			  AND (
				EXISTS (
					SELECT 1 FROM audit_element_links l
					WHERE l.document_id = d.id AND l.element_number = $2
				)
				OR d.elements @> jsonb_build_array($2::int)
			  )
		)
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE origin = 'converted'),
			COUNT(*) FILTER (WHERE origin = 'manual'),
			(
				SELECT COUNT(*) FROM evidence_records e
				WHERE e.tenant_id = $1 AND e.element_number = $2
				  AND e.record_date >= $3 AND e.record_date <= $4
			)
		FROM linked`

	var c repository.ElementCounts
	err := r.db.QueryRowContext(ctx, q, tenantID, elementNumber, since, until).
		Scan(&c.TotalForms, &c.ConvertedForms, &c.ManualForms, &c.RecentSubmissions)
	if err != nil {
		return repository.ElementCounts{}, err
	}
	return c, nil
}

func (r *EvidencePostgres) CreateRecord(ctx context.Context, rec *model.EvidenceRecord) (*model.EvidenceRecord, error) {
	const q = `
		INSERT INTO evidence_records (id, tenant_id, element_number, source, reference_id, title, record_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, tenant_id, element_number, source, reference_id, title, record_date, created_by, created_at`

	var out model.EvidenceRecord
	err := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.TenantID,
		rec.ElementNumber,
		string(rec.Source),
		rec.ReferenceID,
		rec.Title,
		rec.RecordDate,
		rec.CreatedBy,
		rec.CreatedAt,
	).Scan(
		&out.ID,
		&out.TenantID,
		&out.ElementNumber,
		&out.Source,
		&out.ReferenceID,
		&out.Title,
		&out.RecordDate,
		&out.CreatedBy,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}
