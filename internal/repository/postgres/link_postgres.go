package postgres

import (
	"context"
	"database/sql"
	"errors"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

const linkColumns = `id, document_id, element_number, source, confidence, created_by, created_at`

// LinkPostgres stores audit element links.
type LinkPostgres struct {
	db *sql.DB
}

func NewLinkPostgres(db *sql.DB) *LinkPostgres {
	return &LinkPostgres{db: db}
}

var _ repository.LinkRepository = (*LinkPostgres)(nil)

func (r *LinkPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.AuditElementLink, error) {
	q := `SELECT ` + linkColumns + ` FROM audit_element_links WHERE document_id = $1 ORDER BY element_number, source`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditElementLink, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// InsertAuto skips any pair that already has a link of either source.
func (r *LinkPostgres) InsertAuto(ctx context.Context, links []model.AuditElementLink) ([]model.AuditElementLink, error) {
	if len(links) == 0 {
		return []model.AuditElementLink{}, nil
	}

	q := `
		INSERT INTO audit_element_links (id, document_id, element_number, source, confidence, created_by, created_at)
		SELECT $1, $2, $3, 'auto', $4, NULL, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM audit_element_links WHERE document_id = $2 AND element_number = $3
		)
		ON CONFLICT (document_id, element_number, source) DO NOTHING
		RETURNING ` + linkColumns

	created := make([]model.AuditElementLink, 0, len(links))
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, l := range links {
			row := tx.QueryRowContext(ctx, q, l.ID, l.DocumentID, l.ElementNumber, l.Confidence, l.CreatedAt)
			stored, err := scanLink(row)
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

func (r *LinkPostgres) UpsertManual(ctx context.Context, link model.AuditElementLink) (*model.AuditElementLink, error) {
	const existsQ = `SELECT EXISTS (
		SELECT 1 FROM audit_element_links WHERE document_id = $1 AND element_number = $2 AND source = 'manual'
	)`
	const dropAutoQ = `DELETE FROM audit_element_links WHERE document_id = $1 AND element_number = $2 AND source = 'auto'`
	insertQ := `
		INSERT INTO audit_element_links (id, document_id, element_number, source, confidence, created_by, created_at)
		VALUES ($1, $2, $3, 'manual', $4, $5, $6)
		RETURNING ` + linkColumns

	var stored *model.AuditElementLink
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, existsQ, link.DocumentID, link.ElementNumber).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return repository.ErrConflict
		}
		if _, err := tx.ExecContext(ctx, dropAutoQ, link.DocumentID, link.ElementNumber); err != nil {
			return err
		}
		out, err := scanLink(tx.QueryRowContext(ctx, insertQ,
			link.ID, link.DocumentID, link.ElementNumber, link.Confidence, link.CreatedBy, link.CreatedAt))
		if err != nil {
			return translate(err)
		}
		stored = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *LinkPostgres) Delete(ctx context.Context, documentID string, elementNumber int) (int64, error) {
	const q = `DELETE FROM audit_element_links WHERE document_id = $1 AND element_number = $2`
	res, err := r.db.ExecContext(ctx, q, documentID, elementNumber)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanLink(s scanner) (*model.AuditElementLink, error) {
	var l model.AuditElementLink
	if err := s.Scan(&l.ID, &l.DocumentID, &l.ElementNumber, &l.Source, &l.Confidence, &l.CreatedBy, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
