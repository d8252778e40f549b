package repository

import (
	"context"

	"complyhub/internal/model"
)

// LinkRepository persists element links. Callers check document ownership first.
type LinkRepository interface {
	ListByDocument(ctx context.Context, documentID string) ([]model.AuditElementLink, error)

	// InsertAuto writes auto links for (document, element) pairs that have no link yet
	// and returns only the rows actually created.
	InsertAuto(ctx context.Context, links []model.AuditElementLink) ([]model.AuditElementLink, error)

	// UpsertManual replaces any auto link for the pair with a manual one.
	// Returns ErrConflict when a manual link already exists.
	UpsertManual(ctx context.Context, link model.AuditElementLink) (*model.AuditElementLink, error)

	// Delete removes every link for the pair and returns how many rows went away.
	Delete(ctx context.Context, documentID string, elementNumber int) (int64, error)
}
