package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
	"complyhub/internal/extract"
	"complyhub/internal/model"
	"complyhub/internal/ratelimit"
	"complyhub/internal/repository"
	"complyhub/internal/syncclient"
)

const (
	reindexBatchSize = 100
	reindexWindow    = time.Hour
)

// ReindexOptions narrows a reindex run.
type ReindexOptions struct {
	OnlyEmpty     bool     `json:"only_empty"`
	Force         bool     `json:"force"`
	DocumentTypes []string `json:"document_types"`
	SyncAfter     bool     `json:"sync_after"`
}

// ReindexSummary reports a reindex run. Per-document failures are collected, not returned.
type ReindexSummary struct {
	Processed int                    `json:"processed"`
	Linked    int                    `json:"linked"`
	Skipped   int                    `json:"skipped"`
	Errors    []string               `json:"errors"`
	Sync      *syncclient.BulkResult `json:"sync,omitempty"`

	errs *multierror.Error
}

func (s *ReindexSummary) record(err error) {
	s.errs = multierror.Append(s.errs, err)
	s.Errors = append(s.Errors, err.Error())
}

// Err returns the accumulated per-document errors, or nil.
func (s *ReindexSummary) Err() error {
	return s.errs.ErrorOrNil()
}

// ReindexService re-runs extraction and auto linking over a tenant's documents.
type ReindexService interface {
	ReindexTenant(ctx context.Context, caller model.Caller, opts ReindexOptions) (*ReindexSummary, error)
}

type reindexService struct {
	docs      repository.DocumentRepository
	extractor extract.Extractor
	linker    LinkerService
	sync      SyncService
	limiter   ratelimit.WindowLimiter
	perHour   int
	log       logrus.FieldLogger
}

// NewReindexService builds the coordinator. perHour caps runs per administrator per hour;
// sync may be nil when external sync is not configured.
func NewReindexService(docs repository.DocumentRepository, extractor extract.Extractor, linker LinkerService, sync SyncService, limiter ratelimit.WindowLimiter, perHour int, log logrus.FieldLogger) ReindexService {
	return &reindexService{
		docs:      docs,
		extractor: extractor,
		linker:    linker,
		sync:      sync,
		limiter:   limiter,
		perHour:   perHour,
		log:       log.WithField("component", "reindex"),
	}
}

func (s *reindexService) ReindexTenant(ctx context.Context, caller model.Caller, opts ReindexOptions) (*ReindexSummary, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reindex:%s:%s", caller.TenantID, caller.UserID)
	res, err := s.limiter.Allow(ctx, key, s.perHour, reindexWindow)
	if err != nil {
		return nil, apperr.Internal("rate limiter unavailable", err)
	}
	if !res.Allowed {
		return nil, apperr.RateLimit(fmt.Sprintf("reindex is limited to %d runs per hour", s.perHour), res.RetryAfter)
	}

	// A started run is not cancelled by the caller going away.
	ctx = context.WithoutCancel(ctx)
	log := s.log.WithFields(logrus.Fields{"tenant_id": caller.TenantID, "user_id": caller.UserID})
	started := time.Now()
	log.WithFields(logrus.Fields{"only_empty": opts.OnlyEmpty, "force": opts.Force, "types": opts.DocumentTypes}).Info("reindex started")

	sum := &ReindexSummary{Errors: []string{}}
	after := ""
	for page := 0; ; page++ {
		docs, err := s.docs.ListAfter(ctx, caller.TenantID, opts.DocumentTypes, after, reindexBatchSize)
		if err != nil {
			if page == 0 {
				return nil, storeError(err, "document not found")
			}
			sum.record(fmt.Errorf("list after %s: %w", after, err))
			break
		}
		for i := range docs {
			s.reindexOne(ctx, &docs[i], opts, sum)
		}
		if len(docs) < reindexBatchSize {
			break
		}
		after = docs[len(docs)-1].ID
	}

	if opts.SyncAfter && s.sync != nil {
		res, err := s.sync.SyncTenant(ctx, caller)
		if err != nil {
			sum.record(fmt.Errorf("sync: %w", err))
		} else {
			sum.Sync = res
		}
	}

	log.WithFields(logrus.Fields{
		"processed":   sum.Processed,
		"linked":      sum.Linked,
		"skipped":     sum.Skipped,
		"errors":      len(sum.Errors),
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("reindex finished")
	return sum, nil
}

func (s *reindexService) reindexOne(ctx context.Context, doc *model.Document, opts ReindexOptions, sum *ReindexSummary) {
	v, err := s.docs.CurrentVersion(ctx, doc.TenantID, doc.ID)
	if errors.Is(err, repository.ErrNotFound) {
		// No file yet; type code and title still drive linking.
		s.relink(ctx, doc, "", sum)
		return
	}
	if err != nil {
		sum.record(fmt.Errorf("document %s: current version: %w", doc.ID, err))
		return
	}
	if opts.OnlyEmpty && v.HasText() && !opts.Force {
		sum.Skipped++
		return
	}

	text, err := s.extract(ctx, v)
	if err != nil {
		sum.record(fmt.Errorf("document %s: extract: %w", doc.ID, err))
		return
	}
	switch {
	case text != "":
		if err := s.docs.SetExtractedText(ctx, v.ID, text); err != nil {
			sum.record(fmt.Errorf("document %s: store text: %w", doc.ID, err))
			return
		}
	case v.HasText():
		text = *v.ExtractedText
	}

	s.relink(ctx, doc, text, sum)
}

func (s *reindexService) relink(ctx context.Context, doc *model.Document, text string, sum *ReindexSummary) {
	links, err := s.linker.AutoLink(ctx, doc, text)
	if err != nil {
		sum.record(fmt.Errorf("document %s: auto link: %w", doc.ID, err))
		return
	}
	sum.Processed++
	sum.Linked += len(links)
}

func (s *reindexService) extract(ctx context.Context, v *model.DocumentVersion) (string, error) {
	if s.extractor == nil {
		return "", nil
	}
	text, err := s.extractor.Extract(ctx, v.FileReference, v.ContentType)
	if errors.Is(err, extract.ErrUnsupported) {
		return "", nil
	}
	return text, err
}
