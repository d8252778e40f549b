package postgres

import (
	"context"
	"database/sql"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

const mappingColumns = `id, tenant_id, element_number, evidence_source, source_id, external_question_id,
		category, notes, is_active, created_at, updated_at`

// MappingPostgres stores evidence mappings.
type MappingPostgres struct {
	db *sql.DB
}

func NewMappingPostgres(db *sql.DB) *MappingPostgres {
	return &MappingPostgres{db: db}
}

var _ repository.MappingRepository = (*MappingPostgres)(nil)

func (r *MappingPostgres) Create(ctx context.Context, m *model.EvidenceMapping) (*model.EvidenceMapping, error) {
	q := `
		INSERT INTO evidence_mappings (id, tenant_id, element_number, evidence_source, source_id,
			external_question_id, category, notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + mappingColumns
	out, err := scanMapping(r.db.QueryRowContext(ctx, q,
		m.ID,
		m.TenantID,
		m.ElementNumber,
		string(m.EvidenceSource),
		m.SourceID,
		m.ExternalQuestionID,
		m.Category,
		m.Notes,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *MappingPostgres) FindByID(ctx context.Context, tenantID, id string) (*model.EvidenceMapping, error) {
	q := `SELECT ` + mappingColumns + ` FROM evidence_mappings WHERE tenant_id = $1 AND id = $2`
	out, err := scanMapping(r.db.QueryRowContext(ctx, q, tenantID, id))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *MappingPostgres) List(ctx context.Context, tenantID string, activeOnly bool) ([]model.EvidenceMapping, error) {
	q := `SELECT ` + mappingColumns + `
		FROM evidence_mappings
		WHERE tenant_id = $1 AND ($2 = false OR is_active = true)
		ORDER BY element_number, evidence_source, created_at`
	rows, err := r.db.QueryContext(ctx, q, tenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.EvidenceMapping, 0)
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update rewrites the mutable fields of a mapping.
func (r *MappingPostgres) Update(ctx context.Context, m *model.EvidenceMapping) (*model.EvidenceMapping, error) {
	q := `UPDATE evidence_mappings
		SET element_number = $3, evidence_source = $4, source_id = $5, external_question_id = $6,
			category = $7, notes = $8, is_active = $9, updated_at = $10
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + mappingColumns
	out, err := scanMapping(r.db.QueryRowContext(ctx, q,
		m.TenantID,
		m.ID,
		m.ElementNumber,
		string(m.EvidenceSource),
		m.SourceID,
		m.ExternalQuestionID,
		m.Category,
		m.Notes,
		m.IsActive,
		m.UpdatedAt,
	))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func scanMapping(s scanner) (*model.EvidenceMapping, error) {
	var m model.EvidenceMapping
	if err := s.Scan(
		&m.ID,
		&m.TenantID,
		&m.ElementNumber,
		&m.EvidenceSource,
		&m.SourceID,
		&m.ExternalQuestionID,
		&m.Category,
		&m.Notes,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
