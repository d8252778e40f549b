package service

import (
	"context"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"complyhub/internal/apperr"
	"complyhub/internal/config"
	"complyhub/internal/model"
	"complyhub/internal/repository"
)

// summaryConcurrency bounds parallel element queries in SummarizeAll.
const summaryConcurrency = 4

// Thresholds decide evidence sufficiency.
type Thresholds struct {
	MinForms             int
	MinRecentSubmissions int
	WindowDays           int
}

// DefaultThresholds are 3 forms, 1 recent submission, 90 day window.
var DefaultThresholds = Thresholds{MinForms: 3, MinRecentSubmissions: 1, WindowDays: 90}

func ThresholdsFrom(cfg config.ScoringConfig) Thresholds {
	t := Thresholds{
		MinForms:             cfg.MinForms,
		MinRecentSubmissions: cfg.MinRecentSubmissions,
		WindowDays:           cfg.WindowDays,
	}
	if t.MinForms <= 0 || t.WindowDays <= 0 || t.MinRecentSubmissions < 0 {
		return DefaultThresholds
	}
	return t
}

// Classify is the sufficiency policy: no forms is insufficient; enough forms and
// enough recent submissions is sufficient; anything else is partial.
func Classify(totalForms, recentSubmissions int, t Thresholds) model.EvidenceStatus {
	switch {
	case totalForms == 0:
		return model.EvidenceInsufficient
	case totalForms >= t.MinForms && recentSubmissions >= t.MinRecentSubmissions:
		return model.EvidenceSufficient
	default:
		return model.EvidencePartial
	}
}

// RecordEvidenceInput is a non-document evidence record such as a form submission.
type RecordEvidenceInput struct {
	ElementNumber int                  `json:"element_number"`
	Source        model.EvidenceSource `json:"source"`
	ReferenceID   *string              `json:"reference_id"`
	Title         string               `json:"title"`
	RecordDate    time.Time            `json:"record_date"`
}

func (in RecordEvidenceInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ElementNumber, validation.By(validElement)),
		validation.Field(&in.Source, validation.Required.Error("is required"), validation.By(func(any) error {
			if !in.Source.Valid() {
				return validation.NewError("validation_evidence_source", "unknown evidence source")
			}
			return nil
		})),
		validation.Field(&in.Title, validation.Required.Error("is required"), validation.RuneLength(1, 500)),
		validation.Field(&in.RecordDate, validation.Required.Error("is required")),
	)
}

// EvidenceService scores how well each element is backed by evidence.
type EvidenceService interface {
	SummarizeElement(ctx context.Context, caller model.Caller, elementNumber int) (*model.ElementEvidenceSummary, error)

	// SummarizeAll returns all 14 elements, insufficient first, then partial, then sufficient.
	SummarizeAll(ctx context.Context, caller model.Caller) ([]model.ElementEvidenceSummary, error)

	RecordEvidence(ctx context.Context, caller model.Caller, in RecordEvidenceInput) (*model.EvidenceRecord, error)
}

type evidenceService struct {
	evidence   repository.EvidenceRepository
	thresholds Thresholds
	log        logrus.FieldLogger
	now        clock
}

func NewEvidenceService(evidence repository.EvidenceRepository, thresholds Thresholds, log logrus.FieldLogger) EvidenceService {
	return &evidenceService{
		evidence:   evidence,
		thresholds: thresholds,
		log:        log.WithField("component", "scoring"),
		now:        utcNow,
	}
}

func (s *evidenceService) SummarizeElement(ctx context.Context, caller model.Caller, elementNumber int) (*model.ElementEvidenceSummary, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	if err := checkElement(elementNumber); err != nil {
		return nil, err
	}
	now := s.now()
	return s.summarize(ctx, caller.TenantID, elementNumber, s.since(now), now)
}

func (s *evidenceService) since(now time.Time) time.Time {
	return now.AddDate(0, 0, -s.thresholds.WindowDays)
}

// summarize counts records dated in [since, now]; future-dated records are not evidence yet.
func (s *evidenceService) summarize(ctx context.Context, tenantID string, elementNumber int, since, now time.Time) (*model.ElementEvidenceSummary, error) {
	counts, err := s.evidence.ElementCounts(ctx, tenantID, elementNumber, since, now)
	if err != nil {
		return nil, storeError(err, "element not found")
	}
	return &model.ElementEvidenceSummary{
		ElementNumber:         elementNumber,
		ElementName:           model.ElementNames[elementNumber],
		TotalForms:            counts.TotalForms,
		ConvertedForms:        counts.ConvertedForms,
		ManualForms:           counts.ManualForms,
		SubmissionsLast90Days: counts.RecentSubmissions,
		EvidenceStatus:        Classify(counts.TotalForms, counts.RecentSubmissions, s.thresholds),
	}, nil
}

func (s *evidenceService) SummarizeAll(ctx context.Context, caller model.Caller) ([]model.ElementEvidenceSummary, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}

	now := s.now()
	since := s.since(now)
	out := make([]model.ElementEvidenceSummary, model.ElementCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)
	for i := 0; i < model.ElementCount; i++ {
		i := i
		g.Go(func() error {
			sum, err := s.summarize(gctx, caller.TenantID, i+1, since, now)
			if err != nil {
				return err
			}
			out[i] = *sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortSummaries(out)
	return out, nil
}

// SortSummaries orders by status rank, then element number.
func SortSummaries(s []model.ElementEvidenceSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		ri, rj := s[i].EvidenceStatus.Rank(), s[j].EvidenceStatus.Rank()
		if ri != rj {
			return ri < rj
		}
		return s[i].ElementNumber < s[j].ElementNumber
	})
}

func (s *evidenceService) RecordEvidence(ctx context.Context, caller model.Caller, in RecordEvidenceInput) (*model.EvidenceRecord, error) {
	if err := requireWrite(caller); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}
	if in.RecordDate.After(s.now()) {
		return nil, apperr.Validation("record_date", "must not be in the future")
	}

	rec, err := s.evidence.CreateRecord(ctx, &model.EvidenceRecord{
		ID:            uuid.NewString(),
		TenantID:      caller.TenantID,
		ElementNumber: in.ElementNumber,
		Source:        in.Source,
		ReferenceID:   in.ReferenceID,
		Title:         in.Title,
		RecordDate:    in.RecordDate.UTC(),
		CreatedBy:     caller.UserID,
		CreatedAt:     s.now(),
	})
	if err != nil {
		return nil, storeError(err, "element not found")
	}
	return rec, nil
}
