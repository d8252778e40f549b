package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
	"complyhub/internal/model"
	"complyhub/internal/repository"
	"complyhub/internal/syncclient"
)

// Uploader pushes items to the external audit-management API one at a time.
type Uploader interface {
	BulkUpload(ctx context.Context, tenantID string, items []syncclient.UploadItem, onProgress syncclient.ProgressFunc) (*syncclient.BulkResult, error)
}

// SyncService pushes element evidence summaries to the external audit-management API.
type SyncService interface {
	// SyncTenant uploads one item per active mapping that names an external question.
	// Per-item failures are reported in the result, not as an error.
	SyncTenant(ctx context.Context, caller model.Caller) (*syncclient.BulkResult, error)
}

type syncService struct {
	mappings repository.MappingRepository
	evidence EvidenceService
	uploader Uploader
	log      logrus.FieldLogger
	now      clock
}

// NewSyncService returns a SyncService. A nil uploader means sync is not configured.
func NewSyncService(mappings repository.MappingRepository, evidence EvidenceService, uploader Uploader, log logrus.FieldLogger) SyncService {
	return &syncService{
		mappings: mappings,
		evidence: evidence,
		uploader: uploader,
		log:      log.WithField("component", "sync"),
		now:      utcNow,
	}
}

func (s *syncService) SyncTenant(ctx context.Context, caller model.Caller) (*syncclient.BulkResult, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, apperr.Configuration("external sync is not configured")
	}

	mappings, err := s.mappings.List(ctx, caller.TenantID, true)
	if err != nil {
		return nil, storeError(err, "mapping not found")
	}
	summaries, err := s.evidence.SummarizeAll(ctx, caller)
	if err != nil {
		return nil, err
	}
	byElement := make(map[int]model.ElementEvidenceSummary, len(summaries))
	for _, sum := range summaries {
		byElement[sum.ElementNumber] = sum
	}

	items := buildUploadItems(mappings, byElement, s.now().Format("2006-01-02"))
	log := s.log.WithFields(logrus.Fields{"tenant_id": caller.TenantID, "items": len(items)})
	log.Info("evidence sync started")

	res, err := s.uploader.BulkUpload(ctx, caller.TenantID, items, func(done, total int) {
		log.WithField("done", done).Debug("evidence sync progress")
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func buildUploadItems(mappings []model.EvidenceMapping, byElement map[int]model.ElementEvidenceSummary, date string) []syncclient.UploadItem {
	items := make([]syncclient.UploadItem, 0, len(mappings))
	for _, m := range mappings {
		if !m.IsActive || m.ExternalQuestionID == nil || *m.ExternalQuestionID == "" {
			continue
		}
		sum, ok := byElement[m.ElementNumber]
		if !ok {
			continue
		}
		meta := map[string]any{
			"evidence_status":          string(sum.EvidenceStatus),
			"total_forms":              sum.TotalForms,
			"converted_forms":          sum.ConvertedForms,
			"manual_forms":             sum.ManualForms,
			"submissions_last_90_days": sum.SubmissionsLast90Days,
			"mapping_id":               m.ID,
		}
		if m.Category != nil {
			meta["category"] = *m.Category
		}
		items = append(items, syncclient.UploadItem{
			ElementNumber: m.ElementNumber,
			QuestionID:    *m.ExternalQuestionID,
			EvidenceType:  string(m.EvidenceSource),
			Title:         fmt.Sprintf("Element %d: %s", sum.ElementNumber, sum.ElementName),
			Description: fmt.Sprintf("%d current documents (%d converted, %d manual); %d recent submissions; %s",
				sum.TotalForms, sum.ConvertedForms, sum.ManualForms, sum.SubmissionsLast90Days, sum.EvidenceStatus),
			Date:     date,
			Metadata: meta,
		})
	}
	return items
}
