package repository

import (
	"context"
	"time"

	"complyhub/internal/model"
)

// DocumentRef identifies a document across tenants for background sweeps.
type DocumentRef struct {
	TenantID   string
	DocumentID string
}

// DistributionRepository persists distribution rows.
type DistributionRepository interface {
	// Create inserts rows, skipping recipients that already have one for the document.
	Create(ctx context.Context, rows []model.Distribution) ([]model.Distribution, error)
	FindByID(ctx context.Context, tenantID, id string) (*model.Distribution, error)
	ListByDocument(ctx context.Context, tenantID, documentID string) ([]model.Distribution, error)

	// RemindPending increments reminder_count and sets last_reminder_at on every unacknowledged
	// row of the document in a single statement. When remindedBefore is set, rows reminded
	// after it are left alone. When dueBefore is set, only rows whose required_by_date is
	// earlier are touched.
	RemindPending(ctx context.Context, tenantID, documentID string, at time.Time, remindedBefore, dueBefore *time.Time) ([]model.Distribution, error)

	// Acknowledge flips acknowledged false->true once and returns the row as stored.
	Acknowledge(ctx context.Context, tenantID, id string, at time.Time) (*model.Distribution, error)

	// OverdueDocuments lists documents with unacknowledged rows past required_by_date.
	OverdueDocuments(ctx context.Context, now time.Time, remindedBefore time.Time) ([]DocumentRef, error)
}
