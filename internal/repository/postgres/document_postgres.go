package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"complyhub/internal/model"
	"complyhub/internal/repository"
)

const documentColumns = `id, tenant_id, control_number, title, document_type_code, status, origin,
		current_version, folder_id, elements, tags, keywords, effective_date, expiry_date,
		next_review_date, related_document_ids, supersedes_control_number,
		superseded_by_control_number, view_count, last_viewed_at, created_by, created_at, updated_at`

const versionColumns = `id, document_id, version_number, file_reference, content_type, extracted_text, created_by, created_at`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a document row, plus its first version when given, and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document, firstVersion *model.DocumentVersion) (*model.Document, error) {
	elements, err := toJSON(doc.Elements)
	if err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	tags, err := toJSON(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	keywords, err := toJSON(doc.Keywords)
	if err != nil {
		return nil, fmt.Errorf("encode keywords: %w", err)
	}
	related, err := toJSON(doc.RelatedDocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("encode related ids: %w", err)
	}

	const q = `
		INSERT INTO documents (id, tenant_id, control_number, title, document_type_code, status, origin,
			current_version, folder_id, elements, tags, keywords, effective_date, expiry_date,
			next_review_date, related_document_ids, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + documentColumns

	var out *model.Document
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, q,
			doc.ID,
			doc.TenantID,
			doc.ControlNumber,
			doc.Title,
			doc.DocumentTypeCode,
			string(doc.Status),
			string(doc.Origin),
			doc.CurrentVersion,
			doc.FolderID,
			elements,
			tags,
			keywords,
			doc.EffectiveDate,
			doc.ExpiryDate,
			doc.NextReviewDate,
			related,
			doc.CreatedBy,
			doc.CreatedAt,
			doc.UpdatedAt,
		)
		stored, err := scanDocument(row)
		if err != nil {
			return translate(err)
		}
		if firstVersion != nil {
			firstVersion.DocumentID = stored.ID
			firstVersion.VersionNumber = stored.CurrentVersion
			if _, err := insertVersion(ctx, tx, firstVersion); err != nil {
				return translate(err)
			}
		}
		out = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single document by its ID inside the tenant.
func (r *DocumentPostgres) FindByID(ctx context.Context, tenantID, id string) (*model.Document, error) {
	return findDocumentByID(ctx, r.db, tenantID, id)
}

func findDocumentByID(ctx context.Context, q querier, tenantID, id string) (*model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE tenant_id = $1 AND id = $2`
	d, err := scanDocument(q.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// FindByIDs fetches the tenant's documents among ids, ordered by control number.
func (r *DocumentPostgres) FindByIDs(ctx context.Context, tenantID string, ids []string) ([]model.Document, error) {
	if len(ids) == 0 {
		return []model.Document{}, nil
	}
	idsJSON, err := toJSON(ids)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + documentColumns + `
		FROM documents
		WHERE tenant_id = $1 AND id::text IN (SELECT jsonb_array_elements_text($2::jsonb))
		ORDER BY control_number`
	return r.queryDocuments(ctx, q, tenantID, idsJSON)
}

// FindByControlNumber matches the control number case-insensitively.
func (r *DocumentPostgres) FindByControlNumber(ctx context.Context, tenantID, controlNumber string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE tenant_id = $1 AND lower(control_number) = lower($2)`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, tenantID, controlNumber))
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// FindReferencing is the reverse lookup over related_document_ids.
func (r *DocumentPostgres) FindReferencing(ctx context.Context, tenantID, documentID string, statuses []model.Status) ([]model.Document, error) {
	statusJSON, err := toJSON(statusStrings(statuses))
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + documentColumns + `
		FROM documents
		WHERE tenant_id = $1
		  AND jsonb_exists(related_document_ids, $2)
		  AND status IN (SELECT jsonb_array_elements_text($3::jsonb))
		ORDER BY control_number`
	return r.queryDocuments(ctx, q, tenantID, documentID, statusJSON)
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, tenantID string, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where, args, err := buildDocumentFilter(tenantID, f)
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	n := len(args)
	qList := `SELECT ` + documentColumns + `
		FROM documents
		WHERE ` + where + `
		ORDER BY updated_at DESC, id DESC
		LIMIT $` + fmt.Sprint(n+1) + ` OFFSET $` + fmt.Sprint(n+2)
	items, err := r.queryDocuments(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

func buildDocumentFilter(tenantID string, f repository.DocumentFilter) (string, []any, error) {
	clauses := []string{"tenant_id = $1"}
	args := []any{tenantID}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Statuses) > 0 {
		s, err := toJSON(statusStrings(f.Statuses))
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "status IN (SELECT jsonb_array_elements_text("+next(s)+"::jsonb))")
	}
	if len(f.TypeCodes) > 0 {
		s, err := toJSON(f.TypeCodes)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "document_type_code IN (SELECT jsonb_array_elements_text("+next(s)+"::jsonb))")
	}
	if f.FolderID != nil {
		clauses = append(clauses, "folder_id = "+next(*f.FolderID))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := next("%" + escapeLike(q) + "%")
		clauses = append(clauses, "(title ILIKE "+p+" OR control_number ILIKE "+p+" OR keywords::text ILIKE "+p+")")
	}
	return strings.Join(clauses, " AND "), args, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// CountControlNumberPrefix counts control numbers beginning with prefix.
func (r *DocumentPostgres) CountControlNumberPrefix(ctx context.Context, tenantID, prefix string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE tenant_id = $1 AND upper(control_number) LIKE $2`
	var n int
	if err := r.db.QueryRowContext(ctx, q, tenantID, strings.ToUpper(escapeLike(prefix))+"%").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateStatus is a compare-and-set on the status column.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, tenantID, id string, from, to model.Status, at time.Time) (*model.Document, error) {
	q := `UPDATE documents SET status = $4, updated_at = $5
		WHERE tenant_id = $1 AND id = $2 AND status = $3
		RETURNING ` + documentColumns
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, tenantID, id, string(from), string(to), at))
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if _, ferr := r.FindByID(ctx, tenantID, id); ferr != nil {
		return nil, ferr
	}
	return nil, fmt.Errorf("%w: status changed concurrently", repository.ErrConflict)
}

// Supersede locks both rows and sets both pointers in a single transaction.
func (r *DocumentPostgres) Supersede(ctx context.Context, tenantID, oldControlNumber, newControlNumber string, at time.Time) (*model.Document, *model.Document, error) {
	lockQ := `SELECT ` + documentColumns + `
		FROM documents
		WHERE tenant_id = $1 AND lower(control_number) IN (lower($2), lower($3))
		ORDER BY id
		FOR UPDATE`
	updateOldQ := `UPDATE documents SET superseded_by_control_number = $3, updated_at = $4
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + documentColumns
	updateNewQ := `UPDATE documents SET supersedes_control_number = $3, updated_at = $4
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + documentColumns

	var oldDoc, newDoc *model.Document
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, lockQ, tenantID, oldControlNumber, newControlNumber)
		if err != nil {
			return err
		}
		locked, err := collectDocuments(rows)
		if err != nil {
			return err
		}

		var o, n *model.Document
		for i := range locked {
			switch {
			case strings.EqualFold(locked[i].ControlNumber, oldControlNumber):
				o = &locked[i]
			case strings.EqualFold(locked[i].ControlNumber, newControlNumber):
				n = &locked[i]
			}
		}
		if o == nil || n == nil {
			return repository.ErrNotFound
		}
		if pointsElsewhere(o.SupersededByControlNumber, n.ControlNumber) || pointsElsewhere(n.SupersedesControlNumber, o.ControlNumber) {
			return fmt.Errorf("%w: already part of another supersede chain", repository.ErrConflict)
		}

		oldDoc, err = scanDocument(tx.QueryRowContext(ctx, updateOldQ, tenantID, o.ID, n.ControlNumber, at))
		if err != nil {
			return translate(err)
		}
		newDoc, err = scanDocument(tx.QueryRowContext(ctx, updateNewQ, tenantID, n.ID, o.ControlNumber, at))
		if err != nil {
			return translate(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return oldDoc, newDoc, nil
}

func pointsElsewhere(pointer *string, controlNumber string) bool {
	return pointer != nil && !strings.EqualFold(*pointer, controlNumber)
}

// RecordView bumps the view counter.
func (r *DocumentPostgres) RecordView(ctx context.Context, tenantID, id string, at time.Time) error {
	const q = `UPDATE documents SET view_count = view_count + 1, last_viewed_at = $3 WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, q, tenantID, id, at)
	return err
}

// DueForReview lists live documents whose next review date falls inside [from, to].
func (r *DocumentPostgres) DueForReview(ctx context.Context, tenantID string, from, to time.Time) ([]model.Document, error) {
	q := `SELECT ` + documentColumns + `
		FROM documents
		WHERE tenant_id = $1
		  AND status IN ('active', 'approved')
		  AND next_review_date BETWEEN $2 AND $3
		ORDER BY next_review_date ASC, id ASC`
	return r.queryDocuments(ctx, q, tenantID, from, to)
}

// ListAfter pages documents by id, optionally restricted to type codes.
func (r *DocumentPostgres) ListAfter(ctx context.Context, tenantID string, typeCodes []string, afterID string, limit int) ([]model.Document, error) {
	types, err := toJSON(typeCodes)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + documentColumns + `
		FROM documents
		WHERE tenant_id = $1
		  AND ($2 = '' OR id::text > $2)
		  AND ($3::jsonb = '[]'::jsonb OR document_type_code IN (SELECT jsonb_array_elements_text($3::jsonb)))
		ORDER BY id::text
		LIMIT $4`
	return r.queryDocuments(ctx, q, tenantID, afterID, types, limit)
}

// AddVersion locks the document row, inserts the next version and bumps current_version.
func (r *DocumentPostgres) AddVersion(ctx context.Context, tenantID string, v *model.DocumentVersion) (*model.DocumentVersion, error) {
	const lockQ = `SELECT current_version FROM documents WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	const bumpQ = `UPDATE documents SET current_version = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`

	var stored *model.DocumentVersion
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var current int
		if err := tx.QueryRowContext(ctx, lockQ, tenantID, v.DocumentID).Scan(&current); err != nil {
			return translate(err)
		}
		v.VersionNumber = current + 1

		out, err := insertVersion(ctx, tx, v)
		if err != nil {
			return translate(err)
		}
		if _, err := tx.ExecContext(ctx, bumpQ, tenantID, v.DocumentID, v.VersionNumber, v.CreatedAt); err != nil {
			return err
		}
		stored = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func insertVersion(ctx context.Context, q querier, v *model.DocumentVersion) (*model.DocumentVersion, error) {
	query := `
		INSERT INTO document_versions (id, document_id, version_number, file_reference, content_type, extracted_text, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + versionColumns
	row := q.QueryRowContext(ctx, query,
		v.ID,
		v.DocumentID,
		v.VersionNumber,
		v.FileReference,
		v.ContentType,
		v.ExtractedText,
		v.CreatedBy,
		v.CreatedAt,
	)
	return scanVersion(row)
}

// CurrentVersion returns the version matching documents.current_version.
func (r *DocumentPostgres) CurrentVersion(ctx context.Context, tenantID, documentID string) (*model.DocumentVersion, error) {
	const q = `
		SELECT v.id, v.document_id, v.version_number, v.file_reference, v.content_type, v.extracted_text, v.created_by, v.created_at
		FROM document_versions v
		JOIN documents d ON d.id = v.document_id AND d.current_version = v.version_number
		WHERE d.tenant_id = $1 AND d.id = $2`
	v, err := scanVersion(r.db.QueryRowContext(ctx, q, tenantID, documentID))
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// ListVersions returns the audit trail, newest first.
func (r *DocumentPostgres) ListVersions(ctx context.Context, tenantID, documentID string) ([]model.DocumentVersion, error) {
	const q = `
		SELECT v.id, v.document_id, v.version_number, v.file_reference, v.content_type, v.extracted_text, v.created_by, v.created_at
		FROM document_versions v
		JOIN documents d ON d.id = v.document_id
		WHERE d.tenant_id = $1 AND d.id = $2
		ORDER BY v.version_number DESC`
	rows, err := r.db.QueryContext(ctx, q, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentVersion, 0)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetExtractedText replaces the derived text of a version.
func (r *DocumentPostgres) SetExtractedText(ctx context.Context, versionID, text string) error {
	const q = `UPDATE document_versions SET extracted_text = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, versionID, text)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DocumentPostgres) queryDocuments(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	defer rows.Close()
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
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

func scanDocument(s scanner) (*model.Document, error) {
	var (
		d                                 model.Document
		elements, tags, keywords, related []byte
	)
	if err := s.Scan(
		&d.ID,
		&d.TenantID,
		&d.ControlNumber,
		&d.Title,
		&d.DocumentTypeCode,
		&d.Status,
		&d.Origin,
		&d.CurrentVersion,
		&d.FolderID,
		&elements,
		&tags,
		&keywords,
		&d.EffectiveDate,
		&d.ExpiryDate,
		&d.NextReviewDate,
		&related,
		&d.SupersedesControlNumber,
		&d.SupersededByControlNumber,
		&d.ViewCount,
		&d.LastViewedAt,
		&d.CreatedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if d.Elements, err = fromJSON[int](elements); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	if d.Tags, err = fromJSON[string](tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if d.Keywords, err = fromJSON[string](keywords); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	if d.RelatedDocumentIDs, err = fromJSON[string](related); err != nil {
		return nil, fmt.Errorf("decode related ids: %w", err)
	}
	return &d, nil
}

func scanVersion(s scanner) (*model.DocumentVersion, error) {
	var v model.DocumentVersion
	if err := s.Scan(
		&v.ID,
		&v.DocumentID,
		&v.VersionNumber,
		&v.FileReference,
		&v.ContentType,
		&v.ExtractedText,
		&v.CreatedBy,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
