package repository

import (
	"context"
	"time"

	"complyhub/internal/model"
)

// DocumentFilter narrows List results. Empty fields do not filter.
type DocumentFilter struct {
	Statuses  []model.Status
	TypeCodes []string
	FolderID  *string
	// Query is a case-insensitive substring over title, control number and keywords.
	Query string
}

// DocumentRepository persists documents and their versions. Every method is tenant scoped.
type DocumentRepository interface {
	// Create inserts a document and, when firstVersion is non-nil, its version 1 in one transaction.
	// Returns ErrConflict when the control number is already used by the tenant in any casing.
	Create(ctx context.Context, doc *model.Document, firstVersion *model.DocumentVersion) (*model.Document, error)

	FindByID(ctx context.Context, tenantID, id string) (*model.Document, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]model.Document, error)

	// FindByControlNumber matches case-insensitively.
	FindByControlNumber(ctx context.Context, tenantID, controlNumber string) (*model.Document, error)

	// FindReferencing returns documents in one of statuses whose related ids contain documentID.
	FindReferencing(ctx context.Context, tenantID, documentID string, statuses []model.Status) ([]model.Document, error)

	List(ctx context.Context, tenantID string, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// CountControlNumberPrefix counts control numbers starting with prefix, case-insensitively.
	CountControlNumberPrefix(ctx context.Context, tenantID, prefix string) (int, error)

	// UpdateStatus moves a document from one status to another atomically.
	// Returns ErrConflict when the stored status no longer equals from.
	UpdateStatus(ctx context.Context, tenantID, id string, from, to model.Status, at time.Time) (*model.Document, error)

	// Supersede sets both supersede pointers in one transaction or neither. Returns ErrConflict
	// when either side already points at a different document.
	Supersede(ctx context.Context, tenantID, oldControlNumber, newControlNumber string, at time.Time) (oldDoc, newDoc *model.Document, err error)

	RecordView(ctx context.Context, tenantID, id string, at time.Time) error

	// DueForReview returns active/approved documents with a review date in [from, to], ascending.
	DueForReview(ctx context.Context, tenantID string, from, to time.Time) ([]model.Document, error)

	// ListAfter pages documents by id for batch jobs.
	ListAfter(ctx context.Context, tenantID string, typeCodes []string, afterID string, limit int) ([]model.Document, error)

	// AddVersion appends a version numbered current_version+1 and bumps the document, atomically.
	AddVersion(ctx context.Context, tenantID string, v *model.DocumentVersion) (*model.DocumentVersion, error)
	CurrentVersion(ctx context.Context, tenantID, documentID string) (*model.DocumentVersion, error)
	ListVersions(ctx context.Context, tenantID, documentID string) ([]model.DocumentVersion, error)

	// SetExtractedText stores derived text on a version; the file reference stays immutable.
	SetExtractedText(ctx context.Context, versionID, text string) error
}
