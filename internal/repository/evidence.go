package repository

import (
	"context"
	"time"

	"complyhub/internal/model"
)

// ElementCounts is the raw aggregate behind an element summary.
type ElementCounts struct {
	TotalForms        int
	ConvertedForms    int
	ManualForms       int
	RecentSubmissions int
}

// EvidenceRepository aggregates evidence and stores non-document records.
type EvidenceRepository interface {
	// ElementCounts counts distinct active/approved documents linked to the element and
	// records for the element dated in [since, until], in one query.
	ElementCounts(ctx context.Context, tenantID string, elementNumber int, since, until time.Time) (ElementCounts, error)

	CreateRecord(ctx context.Context, rec *model.EvidenceRecord) (*model.EvidenceRecord, error)
}

// MappingRepository persists tenant evidence mappings.
type MappingRepository interface {
	Create(ctx context.Context, m *model.EvidenceMapping) (*model.EvidenceMapping, error)
	FindByID(ctx context.Context, tenantID, id string) (*model.EvidenceMapping, error)
	List(ctx context.Context, tenantID string, activeOnly bool) ([]model.EvidenceMapping, error)
	Update(ctx context.Context, m *model.EvidenceMapping) (*model.EvidenceMapping, error)
}
