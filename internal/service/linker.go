package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
	"complyhub/internal/matcher"
	"complyhub/internal/model"
	"complyhub/internal/repository"
)

// Auto link confidences by the strongest signal that suggested the element.
const (
	ConfidenceTypeCode = 90
	ConfidenceTitle    = 70
	ConfidenceBody     = 60
)

// LinkerService maintains element links for documents.
type LinkerService interface {
	// AutoLink classifies the document and its text and writes only new (document, element)
	// pairs. Repeat calls add nothing. It returns the links created by this call.
	AutoLink(ctx context.Context, doc *model.Document, extractedText string) ([]model.AuditElementLink, error)

	// ManualLink asserts a link, replacing any auto link for the pair.
	ManualLink(ctx context.Context, caller model.Caller, documentID string, elementNumber int) (*model.AuditElementLink, error)

	// Unlink removes manual and auto links for the pair.
	Unlink(ctx context.Context, caller model.Caller, documentID string, elementNumber int) error

	ListLinks(ctx context.Context, caller model.Caller, documentID string) ([]model.AuditElementLink, error)
}

type linkerService struct {
	docs       repository.DocumentRepository
	links      repository.LinkRepository
	classifier *matcher.Classifier
	log        logrus.FieldLogger
	now        clock
}

func NewLinkerService(docs repository.DocumentRepository, links repository.LinkRepository, classifier *matcher.Classifier, log logrus.FieldLogger) LinkerService {
	if classifier == nil {
		classifier = matcher.NewClassifier(nil)
	}
	return &linkerService{
		docs:       docs,
		links:      links,
		classifier: classifier,
		log:        log.WithField("component", "linker"),
		now:        utcNow,
	}
}

func confidenceFor(s matcher.Signal) int {
	switch s {
	case matcher.SignalTypeCode:
		return ConfidenceTypeCode
	case matcher.SignalTitle:
		return ConfidenceTitle
	default:
		return ConfidenceBody
	}
}

func (s *linkerService) AutoLink(ctx context.Context, doc *model.Document, extractedText string) ([]model.AuditElementLink, error) {
	matches := s.classifier.Classify(doc.DocumentTypeCode, doc.Title, extractedText)
	if len(matches) == 0 {
		return []model.AuditElementLink{}, nil
	}

	now := s.now()
	candidates := make([]model.AuditElementLink, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, model.AuditElementLink{
			ID:            uuid.NewString(),
			DocumentID:    doc.ID,
			ElementNumber: m.Element,
			Source:        model.LinkSourceAuto,
			Confidence:    confidenceFor(m.Signal),
			CreatedAt:     now,
		})
	}

	created, err := s.links.InsertAuto(ctx, candidates)
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	if len(created) > 0 {
		s.log.WithFields(logrus.Fields{
			"event":       "auto_link",
			"tenant_id":   doc.TenantID,
			"document_id": doc.ID,
			"created":     len(created),
			"candidates":  len(candidates),
		}).Debug("auto links written")
	}
	return created, nil
}

func (s *linkerService) ManualLink(ctx context.Context, caller model.Caller, documentID string, elementNumber int) (*model.AuditElementLink, error) {
	if err := requireWrite(caller); err != nil {
		return nil, err
	}
	if err := checkElement(elementNumber); err != nil {
		return nil, err
	}
	if _, err := s.docs.FindByID(ctx, caller.TenantID, documentID); err != nil {
		return nil, storeError(err, "document not found")
	}

	user := caller.UserID
	link, err := s.links.UpsertManual(ctx, model.AuditElementLink{
		ID:            uuid.NewString(),
		DocumentID:    documentID,
		ElementNumber: elementNumber,
		Source:        model.LinkSourceManual,
		Confidence:    model.ManualConfidence,
		CreatedBy:     &user,
		CreatedAt:     s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Conflict("element_number", "a manual link already exists for this element")
		}
		return nil, storeError(err, "document not found")
	}
	return link, nil
}

func (s *linkerService) Unlink(ctx context.Context, caller model.Caller, documentID string, elementNumber int) error {
	if err := requireWrite(caller); err != nil {
		return err
	}
	if err := checkElement(elementNumber); err != nil {
		return err
	}
	if _, err := s.docs.FindByID(ctx, caller.TenantID, documentID); err != nil {
		return storeError(err, "document not found")
	}

	n, err := s.links.Delete(ctx, documentID, elementNumber)
	if err != nil {
		return storeError(err, "link not found")
	}
	if n == 0 {
		return apperr.NotFound("no link for this element")
	}
	return nil
}

func (s *linkerService) ListLinks(ctx context.Context, caller model.Caller, documentID string) ([]model.AuditElementLink, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	if _, err := s.docs.FindByID(ctx, caller.TenantID, documentID); err != nil {
		return nil, storeError(err, "document not found")
	}
	links, err := s.links.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	return links, nil
}
