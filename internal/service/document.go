package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
	"complyhub/internal/extract"
	"complyhub/internal/matcher"
	"complyhub/internal/model"
	"complyhub/internal/repository"
	"complyhub/internal/storage"
)

const (
	defaultPageLimit  = 20
	maxPageLimit      = 100
	defaultReviewDays = 30
	maxReviewDays     = 365
	// controlNumberAttempts bounds retries when a generated control number collides.
	controlNumberAttempts = 5
	downloadURLExpiry     = 15 * time.Minute
)

var typeCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// currentStatuses are the statuses that count as live evidence.
var currentStatuses = []model.Status{model.StatusActive, model.StatusApproved}

// FileInput is an uploaded file to be stored as a document version.
type FileInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// CreateDocumentInput carries the caller-supplied fields of a new document.
type CreateDocumentInput struct {
	ControlNumber      string       `json:"control_number"`
	Title              string       `json:"title"`
	DocumentTypeCode   string       `json:"document_type_code"`
	Origin             model.Origin `json:"origin"`
	FolderID           *string      `json:"folder_id"`
	Elements           []int        `json:"elements"`
	Tags               []string     `json:"tags"`
	Keywords           []string     `json:"keywords"`
	EffectiveDate      *time.Time   `json:"effective_date"`
	ExpiryDate         *time.Time   `json:"expiry_date"`
	NextReviewDate     *time.Time   `json:"next_review_date"`
	RelatedDocumentIDs []string     `json:"related_document_ids"`
}

func (in CreateDocumentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("is required"), validation.RuneLength(1, 500)),
		validation.Field(&in.DocumentTypeCode, validation.Required.Error("is required"), validation.Length(1, 32), validation.Match(typeCodePattern)),
		validation.Field(&in.ControlNumber, validation.Length(0, 64)),
		validation.Field(&in.Origin, validation.In(model.OriginManual, model.OriginConverted)),
		validation.Field(&in.Elements, validation.Each(validation.By(validElement))),
		validation.Field(&in.RelatedDocumentIDs, validation.Each(is.UUID)),
		validation.Field(&in.ExpiryDate, validation.By(func(any) error {
			if in.ExpiryDate != nil && in.EffectiveDate != nil && in.ExpiryDate.Before(*in.EffectiveDate) {
				return validation.NewError("validation_expiry_order", "must not be before effective_date")
			}
			return nil
		})),
	)
}

func (in CreateDocumentInput) normalized() CreateDocumentInput {
	in.ControlNumber = strings.TrimSpace(in.ControlNumber)
	in.Title = strings.TrimSpace(in.Title)
	in.DocumentTypeCode = strings.TrimSpace(in.DocumentTypeCode)
	if in.Origin == "" {
		in.Origin = model.OriginManual
	}
	in.Elements = mapset.NewThreadUnsafeSet(in.Elements...).ToSlice()
	sort.Ints(in.Elements)
	in.Tags = cleanStrings(in.Tags)
	in.Keywords = cleanStrings(in.Keywords)
	in.RelatedDocumentIDs = cleanStrings(in.RelatedDocumentIDs)
	return in
}

// cleanStrings trims, drops blanks and deduplicates while keeping order.
func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || !seen.Add(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ListQuery holds pagination and filters for listing documents.
type ListQuery struct {
	Limit     int
	Offset    int
	Statuses  []model.Status
	TypeCodes []string
	FolderID  *string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items  []model.Document `json:"data"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// SupersedeResult holds both documents after a supersede.
type SupersedeResult struct {
	Old *model.Document `json:"old"`
	New *model.Document `json:"new"`
}

// DocumentService is the document registry.
type DocumentService interface {
	// Create registers a draft document at version 1. When file is set it is stored and its
	// text extracted before the row is written; the object is removed again if the write fails.
	Create(ctx context.Context, caller model.Caller, in CreateDocumentInput, file *FileInput) (*model.Document, error)

	// Get returns a document and records the view. View tracking failures are logged only.
	Get(ctx context.Context, caller model.Caller, id string) (*model.Document, error)

	List(ctx context.Context, caller model.Caller, q ListQuery) (*DocumentListResult, error)

	// Search is a case-insensitive substring match over title, control number and keywords.
	Search(ctx context.Context, caller model.Caller, query string, q ListQuery) (*DocumentListResult, error)

	// AddVersion stores a new file as version current_version+1.
	AddVersion(ctx context.Context, caller model.Caller, documentID string, file FileInput) (*model.DocumentVersion, error)

	ListVersions(ctx context.Context, caller model.Caller, documentID string) ([]model.DocumentVersion, error)

	// DownloadURL returns a short-lived URL for one version's file.
	DownloadURL(ctx context.Context, caller model.Caller, documentID string, versionNumber int) (string, error)

	SetStatus(ctx context.Context, caller model.Caller, id string, status model.Status) (*model.Document, error)

	// Supersede links old and new atomically: both pointers are set or neither.
	Supersede(ctx context.Context, caller model.Caller, oldControlNumber, newControlNumber string) (*SupersedeResult, error)

	FindRelated(ctx context.Context, caller model.Caller, id string) (*model.RelatedDocuments, error)

	// ListDueForReview returns active/approved documents due within daysAhead (0 means 30).
	ListDueForReview(ctx context.Context, caller model.Caller, daysAhead int) ([]model.Document, error)
}

type documentService struct {
	docs      repository.DocumentRepository
	store     storage.Storage
	extractor extract.Extractor
	linker    LinkerService
	log       logrus.FieldLogger
	now       clock
}

// NewDocumentService constructs a DocumentService. extractor and linker may be nil.
func NewDocumentService(docs repository.DocumentRepository, store storage.Storage, extractor extract.Extractor, linker LinkerService, log logrus.FieldLogger) DocumentService {
	return &documentService{
		docs:      docs,
		store:     store,
		extractor: extractor,
		linker:    linker,
		log:       log.WithField("component", "registry"),
		now:       utcNow,
	}
}

func (s *documentService) Create(ctx context.Context, caller model.Caller, in CreateDocumentInput, file *FileInput) (*model.Document, error) {
	if err := requireWrite(caller); err != nil {
		return nil, err
	}
	in = in.normalized()
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}

	now := s.now()
	doc := &model.Document{
		ID:                 uuid.NewString(),
		TenantID:           caller.TenantID,
		ControlNumber:      in.ControlNumber,
		Title:              in.Title,
		DocumentTypeCode:   in.DocumentTypeCode,
		Status:             model.StatusDraft,
		Origin:             in.Origin,
		CurrentVersion:     1,
		FolderID:           in.FolderID,
		Elements:           in.Elements,
		Tags:               in.Tags,
		Keywords:           in.Keywords,
		EffectiveDate:      in.EffectiveDate,
		ExpiryDate:         in.ExpiryDate,
		NextReviewDate:     in.NextReviewDate,
		RelatedDocumentIDs: in.RelatedDocumentIDs,
		CreatedBy:          caller.UserID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	var (
		version *model.DocumentVersion
		text    string
	)
	if file != nil {
		var err error
		if version, text, err = s.storeFile(ctx, doc, *file, caller.UserID, now); err != nil {
			return nil, err
		}
	}

	stored, err := s.insert(ctx, doc, version)
	if err != nil {
		if version != nil {
			s.discard(ctx, version.FileReference)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"event":          "document_created",
		"tenant_id":      stored.TenantID,
		"document_id":    stored.ID,
		"control_number": stored.ControlNumber,
	}).Info("document created")

	s.autoLink(ctx, stored, text)
	return stored, nil
}

// insert writes the document, generating a control number when none was supplied.
func (s *documentService) insert(ctx context.Context, doc *model.Document, version *model.DocumentVersion) (*model.Document, error) {
	if doc.ControlNumber != "" {
		stored, err := s.docs.Create(ctx, doc, version)
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Conflict("control_number", "already exists for this tenant")
		}
		if err != nil {
			return nil, storeError(err, "document not found")
		}
		return stored, nil
	}

	prefix := controlNumberPrefix(doc.DocumentTypeCode)
	for attempt := 0; attempt < controlNumberAttempts; attempt++ {
		n, err := s.docs.CountControlNumberPrefix(ctx, doc.TenantID, prefix)
		if err != nil {
			return nil, storeError(err, "document not found")
		}
		doc.ControlNumber = fmt.Sprintf("%s%03d", prefix, n+1+attempt)

		stored, err := s.docs.Create(ctx, doc, version)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, storeError(err, "document not found")
		}
		return stored, nil
	}
	return nil, apperr.Conflict("control_number", "could not allocate a control number, please retry")
}

// controlNumberPrefix builds "DOC-<TYPE>-" from the letters of the type code.
func controlNumberPrefix(typeCode string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(typeCode) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	letters := b.String()
	if len(letters) < 2 {
		letters = "GEN"
	}
	return "DOC-" + letters + "-"
}

// storeFile uploads the file and extracts its text. The returned version is not yet persisted.
func (s *documentService) storeFile(ctx context.Context, doc *model.Document, file FileInput, user string, now time.Time) (*model.DocumentVersion, string, error) {
	if file.Reader == nil {
		return nil, "", apperr.Validation("file", "is required")
	}
	contentType := strings.TrimSpace(file.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	v := &model.DocumentVersion{
		ID:          uuid.NewString(),
		DocumentID:  doc.ID,
		ContentType: contentType,
		CreatedBy:   user,
		CreatedAt:   now,
	}
	v.FileReference = storage.VersionKey(doc.TenantID, doc.ID, v.ID, file.Filename)

	if _, err := s.store.Put(ctx, v.FileReference, file.Reader, storage.PutOptions{
		Size:        file.Size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": path.Base(file.Filename)},
	}); err != nil {
		return nil, "", apperr.Internal("upload to storage", err)
	}

	text := s.extractText(ctx, doc, v)
	if text != "" {
		v.ExtractedText = &text
	}
	return v, text, nil
}

func (s *documentService) extractText(ctx context.Context, doc *model.Document, v *model.DocumentVersion) string {
	if s.extractor == nil {
		return ""
	}
	text, err := s.extractor.Extract(ctx, v.FileReference, v.ContentType)
	if err != nil {
		entry := s.log.WithFields(logrus.Fields{"document_id": doc.ID, "content_type": v.ContentType})
		if errors.Is(err, extract.ErrUnsupported) {
			entry.Debug("no extractor for content type")
		} else {
			entry.WithError(err).Warn("text extraction failed")
		}
		return ""
	}
	return text
}

// discard removes an uploaded object whose row was never written.
func (s *documentService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Error("rollback delete failed")
	}
}

func (s *documentService) autoLink(ctx context.Context, doc *model.Document, text string) {
	if s.linker == nil {
		return
	}
	if _, err := s.linker.AutoLink(ctx, doc, text); err != nil {
		s.log.WithError(err).WithField("document_id", doc.ID).Warn("auto link failed")
	}
}

func (s *documentService) Get(ctx context.Context, caller model.Caller, id string) (*model.Document, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	doc, err := s.docs.FindByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, "document not found")
	}

	now := s.now()
	if err := s.docs.RecordView(ctx, caller.TenantID, id, now); err != nil {
		s.log.WithError(err).WithField("document_id", id).Warn("view tracking failed")
	} else {
		doc.ViewCount++
		doc.LastViewedAt = &now
	}
	return doc, nil
}

func pageOf(q ListQuery) repository.PageQuery {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

func (s *documentService) List(ctx context.Context, caller model.Caller, q ListQuery) (*DocumentListResult, error) {
	return s.list(ctx, caller, "", q)
}

func (s *documentService) Search(ctx context.Context, caller model.Caller, query string, q ListQuery) (*DocumentListResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("q", "is required")
	}
	if len(query) > 200 {
		return nil, apperr.Validation("q", "must be at most 200 characters")
	}
	return s.list(ctx, caller, query, q)
}

func (s *documentService) list(ctx context.Context, caller model.Caller, query string, q ListQuery) (*DocumentListResult, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	for _, st := range q.Statuses {
		if !st.Valid() {
			return nil, apperr.Validation("status", fmt.Sprintf("unknown status %q", st))
		}
	}

	pq := pageOf(q)
	res, err := s.docs.List(ctx, caller.TenantID, repository.DocumentFilter{
		Statuses:  q.Statuses,
		TypeCodes: q.TypeCodes,
		FolderID:  q.FolderID,
		Query:     query,
	}, pq)
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total, Limit: pq.Limit, Offset: pq.Offset}, nil
}

func (s *documentService) AddVersion(ctx context.Context, caller model.Caller, documentID string, file FileInput) (*model.DocumentVersion, error) {
	if err := requireWrite(caller); err != nil {
		return nil, err
	}
	doc, err := s.docs.FindByID(ctx, caller.TenantID, documentID)
	if err != nil {
		return nil, storeError(err, "document not found")
	}

	v, text, err := s.storeFile(ctx, doc, file, caller.UserID, s.now())
	if err != nil {
		return nil, err
	}

	stored, err := s.docs.AddVersion(ctx, caller.TenantID, v)
	if err != nil {
		s.discard(ctx, v.FileReference)
		return nil, storeError(err, "document not found")
	}
	doc.CurrentVersion = stored.VersionNumber

	s.log.WithFields(logrus.Fields{
		"event":          "version_added",
		"tenant_id":      doc.TenantID,
		"document_id":    doc.ID,
		"version_number": stored.VersionNumber,
		"has_text":       stored.HasText(),
	}).Info("document version added")

	s.autoLink(ctx, doc, text)
	return stored, nil
}

func (s *documentService) ListVersions(ctx context.Context, caller model.Caller, documentID string) ([]model.DocumentVersion, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	if _, err := s.docs.FindByID(ctx, caller.TenantID, documentID); err != nil {
		return nil, storeError(err, "document not found")
	}
	versions, err := s.docs.ListVersions(ctx, caller.TenantID, documentID)
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	return versions, nil
}

func (s *documentService) DownloadURL(ctx context.Context, caller model.Caller, documentID string, versionNumber int) (string, error) {
	versions, err := s.ListVersions(ctx, caller, documentID)
	if err != nil {
		return "", err
	}
	for _, v := range versions {
		if v.VersionNumber != versionNumber {
			continue
		}
		u, err := s.store.PresignGet(ctx, v.FileReference, downloadURLExpiry)
		if err != nil {
			return "", apperr.Internal("presign download", err)
		}
		return u, nil
	}
	return "", apperr.NotFound("version not found")
}

func (s *documentService) SetStatus(ctx context.Context, caller model.Caller, id string, status model.Status) (*model.Document, error) {
	if err := requireWrite(caller); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Validation("status", fmt.Sprintf("unknown status %q", status))
	}
	doc, err := s.docs.FindByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	if !doc.Status.CanTransitionTo(status) {
		return nil, apperr.InvalidTransition(string(doc.Status), string(status))
	}

	updated, err := s.docs.UpdateStatus(ctx, caller.TenantID, id, doc.Status, status, s.now())
	if errors.Is(err, repository.ErrConflict) {
		return nil, apperr.Conflict("status", "status changed concurrently, reload and retry")
	}
	if err != nil {
		return nil, storeError(err, "document not found")
	}

	s.log.WithFields(logrus.Fields{
		"event":       "status_changed",
		"tenant_id":   caller.TenantID,
		"document_id": id,
		"from":        doc.Status,
		"to":          status,
	}).Info("document status changed")
	return updated, nil
}

func (s *documentService) Supersede(ctx context.Context, caller model.Caller, oldControlNumber, newControlNumber string) (*SupersedeResult, error) {
	if err := requireWrite(caller); err != nil {
		return nil, err
	}
	oldControlNumber = strings.TrimSpace(oldControlNumber)
	newControlNumber = strings.TrimSpace(newControlNumber)
	switch {
	case oldControlNumber == "":
		return nil, apperr.Validation("old_control_number", "is required")
	case newControlNumber == "":
		return nil, apperr.Validation("new_control_number", "is required")
	case strings.EqualFold(oldControlNumber, newControlNumber):
		return nil, apperr.Validation("new_control_number", "must differ from old_control_number")
	}

	oldDoc, newDoc, err := s.docs.Supersede(ctx, caller.TenantID, oldControlNumber, newControlNumber, s.now())
	if errors.Is(err, repository.ErrConflict) {
		return nil, apperr.Conflict("control_number", "document is already superseded by, or supersedes, another document")
	}
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	return &SupersedeResult{Old: oldDoc, New: newDoc}, nil
}

func (s *documentService) FindRelated(ctx context.Context, caller model.Caller, id string) (*model.RelatedDocuments, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	doc, err := s.docs.FindByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, "document not found")
	}

	out := &model.RelatedDocuments{
		References:   []model.Document{},
		ReferencedBy: []model.Document{},
		Supersedes:   []model.Document{},
		SupersededBy: []model.Document{},
	}

	ids := make([]string, 0, len(doc.RelatedDocumentIDs))
	for _, rid := range doc.RelatedDocumentIDs {
		if rid != doc.ID {
			ids = append(ids, rid)
		}
	}
	if out.References, err = s.docs.FindByIDs(ctx, caller.TenantID, ids); err != nil {
		return nil, storeError(err, "document not found")
	}

	referencing, err := s.docs.FindReferencing(ctx, caller.TenantID, doc.ID, currentStatuses)
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	for _, d := range referencing {
		if d.ID != doc.ID {
			out.ReferencedBy = append(out.ReferencedBy, d)
		}
	}

	if out.Supersedes, err = s.byControlNumber(ctx, caller.TenantID, doc.SupersedesControlNumber); err != nil {
		return nil, err
	}
	if out.SupersededBy, err = s.byControlNumber(ctx, caller.TenantID, doc.SupersededByControlNumber); err != nil {
		return nil, err
	}

	s.appendTextReferences(ctx, doc, out)
	return out, nil
}

func (s *documentService) byControlNumber(ctx context.Context, tenantID string, controlNumber *string) ([]model.Document, error) {
	if controlNumber == nil || *controlNumber == "" {
		return []model.Document{}, nil
	}
	d, err := s.docs.FindByControlNumber(ctx, tenantID, *controlNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.Document{}, nil
	}
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	return []model.Document{*d}, nil
}

// appendTextReferences resolves control numbers in the current version's text and appends
// live documents not already listed. It is best effort: failures are logged and the lists
// gathered so far are kept.
func (s *documentService) appendTextReferences(ctx context.Context, doc *model.Document, out *model.RelatedDocuments) {
	log := s.log.WithFields(logrus.Fields{"tenant_id": doc.TenantID, "document_id": doc.ID})

	v, err := s.docs.CurrentVersion(ctx, doc.TenantID, doc.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.WithError(err).Warn("related text pass skipped")
		}
		return
	}
	if !v.HasText() {
		return
	}

	listed := mapset.NewThreadUnsafeSet(doc.ID)
	for _, group := range [][]model.Document{out.References, out.ReferencedBy, out.Supersedes, out.SupersededBy} {
		for _, d := range group {
			listed.Add(d.ID)
		}
	}

	found := matcher.FirstN(matcher.ExtractControlNumbers(*v.ExtractedText), matcher.MaxResolvedControlNumbers)
	for _, cn := range found {
		if strings.EqualFold(cn.Key, doc.ControlNumber) {
			continue
		}
		hit, err := s.docs.FindByControlNumber(ctx, doc.TenantID, cn.Key)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			log.WithError(err).WithField("control_number", cn.Display).Warn("control number lookup failed")
			return
		}
		if !hit.Status.IsCurrent() || !listed.Add(hit.ID) {
			continue
		}
		out.References = append(out.References, *hit)
	}
}

func (s *documentService) ListDueForReview(ctx context.Context, caller model.Caller, daysAhead int) ([]model.Document, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	if daysAhead == 0 {
		daysAhead = defaultReviewDays
	}
	if daysAhead < 1 || daysAhead > maxReviewDays {
		return nil, apperr.Validation("days_ahead", "must be between 1 and 365")
	}

	now := s.now()
	docs, err := s.docs.DueForReview(ctx, caller.TenantID, now, now.AddDate(0, 0, daysAhead))
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	return docs, nil
}
