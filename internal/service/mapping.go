package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
	"complyhub/internal/model"
	"complyhub/internal/repository"
)

// MappingInput creates an evidence mapping.
type MappingInput struct {
	ElementNumber      int                  `json:"element_number"`
	EvidenceSource     model.EvidenceSource `json:"evidence_source"`
	SourceID           *string              `json:"source_id"`
	ExternalQuestionID *string              `json:"external_question_id"`
	Category           *string              `json:"category"`
	Notes              *string              `json:"notes"`
}

func (in MappingInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ElementNumber, validation.By(validElement)),
		validation.Field(&in.EvidenceSource, validation.Required.Error("is required"), validation.By(func(any) error {
			if !in.EvidenceSource.Valid() {
				return validation.NewError("validation_evidence_source", "unknown evidence source")
			}
			return nil
		})),
		validation.Field(&in.ExternalQuestionID, validation.NilOrNotEmpty, validation.Length(0, 128)),
	)
}

// MappingPatch updates a mapping; nil fields are left as they are.
type MappingPatch struct {
	ExternalQuestionID *string `json:"external_question_id"`
	Category           *string `json:"category"`
	Notes              *string `json:"notes"`
	IsActive           *bool   `json:"is_active"`
}

// MappingService administers evidence mappings. All operations require the admin role.
type MappingService interface {
	Create(ctx context.Context, caller model.Caller, in MappingInput) (*model.EvidenceMapping, error)
	List(ctx context.Context, caller model.Caller, activeOnly bool) ([]model.EvidenceMapping, error)
	Update(ctx context.Context, caller model.Caller, id string, patch MappingPatch) (*model.EvidenceMapping, error)
}

type mappingService struct {
	mappings repository.MappingRepository
	log      logrus.FieldLogger
	now      clock
}

func NewMappingService(mappings repository.MappingRepository, log logrus.FieldLogger) MappingService {
	return &mappingService{mappings: mappings, log: log.WithField("component", "mappings"), now: utcNow}
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (s *mappingService) Create(ctx context.Context, caller model.Caller, in MappingInput) (*model.EvidenceMapping, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	in.ExternalQuestionID = trimmed(in.ExternalQuestionID)
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}

	now := s.now()
	m, err := s.mappings.Create(ctx, &model.EvidenceMapping{
		ID:                 uuid.NewString(),
		TenantID:           caller.TenantID,
		ElementNumber:      in.ElementNumber,
		EvidenceSource:     in.EvidenceSource,
		SourceID:           in.SourceID,
		ExternalQuestionID: in.ExternalQuestionID,
		Category:           in.Category,
		Notes:              in.Notes,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, storeError(err, "mapping not found")
	}
	return m, nil
}

func (s *mappingService) List(ctx context.Context, caller model.Caller, activeOnly bool) ([]model.EvidenceMapping, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	out, err := s.mappings.List(ctx, caller.TenantID, activeOnly)
	if err != nil {
		return nil, storeError(err, "mapping not found")
	}
	return out, nil
}

func (s *mappingService) Update(ctx context.Context, caller model.Caller, id string, patch MappingPatch) (*model.EvidenceMapping, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	m, err := s.mappings.FindByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, "mapping not found")
	}

	if patch.ExternalQuestionID != nil {
		q := trimmed(patch.ExternalQuestionID)
		if *q == "" {
			return nil, apperr.Validation("external_question_id", "cannot be blank")
		}
		m.ExternalQuestionID = q
	}
	if patch.Category != nil {
		m.Category = patch.Category
	}
	if patch.Notes != nil {
		m.Notes = patch.Notes
	}
	if patch.IsActive != nil {
		m.IsActive = *patch.IsActive
	}
	m.UpdatedAt = s.now()

	updated, err := s.mappings.Update(ctx, m)
	if err != nil {
		return nil, storeError(err, "mapping not found")
	}
	s.log.WithFields(logrus.Fields{"tenant_id": caller.TenantID, "mapping_id": id, "is_active": updated.IsActive}).Info("mapping updated")
	return updated, nil
}
