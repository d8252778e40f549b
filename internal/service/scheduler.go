package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
	"complyhub/internal/model"
	"complyhub/internal/notify"
	"complyhub/internal/repository"
)

const (
	dueThisWeek   = 7 * 24 * time.Hour
	maxRecipients = 500
)

// ReviewBuckets groups documents by review urgency.
type ReviewBuckets struct {
	Overdue     []model.Document `json:"overdue"`
	DueThisWeek []model.Document `json:"due_this_week"`
	Upcoming    []model.Document `json:"upcoming"`
}

// BucketReviews splits documents by next_review_date: before now is overdue, up to
// and including now+7d is due this week, later is upcoming. Undated documents are dropped.
func BucketReviews(docs []model.Document, now time.Time) ReviewBuckets {
	out := ReviewBuckets{
		Overdue:     []model.Document{},
		DueThisWeek: []model.Document{},
		Upcoming:    []model.Document{},
	}
	weekEnd := now.Add(dueThisWeek)
	for _, d := range docs {
		switch {
		case d.NextReviewDate == nil:
		case d.NextReviewDate.Before(now):
			out.Overdue = append(out.Overdue, d)
		case !d.NextReviewDate.After(weekEnd):
			out.DueThisWeek = append(out.DueThisWeek, d)
		default:
			out.Upcoming = append(out.Upcoming, d)
		}
	}
	return out
}

// DistributeInput routes a document to recipients.
type DistributeInput struct {
	RecipientIDs   []string   `json:"recipient_ids"`
	RequiredByDate *time.Time `json:"required_by_date"`
}

// DistributionView is a distribution with its derived state.
type DistributionView struct {
	model.Distribution
	State model.DistributionState `json:"state"`
}

// SchedulerService handles review bucketing and document distribution.
type SchedulerService interface {
	Reviews(ctx context.Context, caller model.Caller, daysAhead int) (*ReviewBuckets, error)

	// Distribute creates one pending distribution per new recipient and notifies them.
	// Recipients that already have a row for the document are skipped.
	Distribute(ctx context.Context, caller model.Caller, documentID string, in DistributeInput) ([]model.Distribution, error)

	// Remind bumps every unacknowledged row of the document and returns how many were reminded.
	Remind(ctx context.Context, caller model.Caller, documentID string) (int, error)

	// RemindOverdue reminds overdue rows across tenants whose last reminder is older than the gap.
	RemindOverdue(ctx context.Context) (int, error)

	// Acknowledge is idempotent: an acknowledged row is returned unchanged.
	Acknowledge(ctx context.Context, caller model.Caller, distributionID string) (*model.Distribution, error)

	ListDistributions(ctx context.Context, caller model.Caller, documentID string) ([]DistributionView, error)
}

type schedulerService struct {
	docs        repository.DocumentRepository
	dists       repository.DistributionRepository
	notifier    notify.Notifier
	reminderGap time.Duration
	log         logrus.FieldLogger
	now         clock
}

func NewSchedulerService(docs repository.DocumentRepository, dists repository.DistributionRepository, notifier notify.Notifier, reminderGap time.Duration, log logrus.FieldLogger) SchedulerService {
	return &schedulerService{
		docs:        docs,
		dists:       dists,
		notifier:    notifier,
		reminderGap: reminderGap,
		log:         log.WithField("component", "scheduler"),
		now:         utcNow,
	}
}

func (s *schedulerService) Reviews(ctx context.Context, caller model.Caller, daysAhead int) (*ReviewBuckets, error) {
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
	docs, err := s.docs.DueForReview(ctx, caller.TenantID, time.Time{}, now.AddDate(0, 0, daysAhead))
	if err != nil {
		return nil, storeError(err, "document not found")
	}
	b := BucketReviews(docs, now)
	return &b, nil
}

func (s *schedulerService) Distribute(ctx context.Context, caller model.Caller, documentID string, in DistributeInput) ([]model.Distribution, error) {
	if err := requireWrite(caller); err != nil {
		return nil, err
	}
	recipients := cleanStrings(in.RecipientIDs)
	switch {
	case len(recipients) == 0:
		return nil, apperr.Validation("recipient_ids", "at least one recipient is required")
	case len(recipients) > maxRecipients:
		return nil, apperr.Validation("recipient_ids", fmt.Sprintf("at most %d recipients per call", maxRecipients))
	}

	doc, err := s.docs.FindByID(ctx, caller.TenantID, documentID)
	if err != nil {
		return nil, storeError(err, "document not found")
	}

	now := s.now()
	rows := make([]model.Distribution, 0, len(recipients))
	for _, r := range recipients {
		rows = append(rows, model.Distribution{
			ID:             uuid.NewString(),
			TenantID:       caller.TenantID,
			DocumentID:     doc.ID,
			RecipientID:    r,
			DistributedAt:  now,
			RequiredByDate: in.RequiredByDate,
		})
	}
	created, err := s.dists.Create(ctx, rows)
	if err != nil {
		return nil, storeError(err, "document not found")
	}

	s.notifyAll(ctx, doc, created, notify.KindDistributed, "Please review "+doc.ControlNumber)
	s.log.WithFields(logrus.Fields{
		"event":       "distributed",
		"tenant_id":   caller.TenantID,
		"document_id": doc.ID,
		"requested":   len(recipients),
		"created":     len(created),
	}).Info("document distributed")
	return created, nil
}

func (s *schedulerService) notifyAll(ctx context.Context, doc *model.Document, rows []model.Distribution, kind, subject string) {
	if s.notifier == nil {
		return
	}
	for _, d := range rows {
		err := s.notifier.Notify(ctx, d.RecipientID, notify.Message{
			Kind:       kind,
			TenantID:   doc.TenantID,
			DocumentID: doc.ID,
			Subject:    subject,
			Body:       doc.Title,
		})
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"document_id":  doc.ID,
				"recipient_id": d.RecipientID,
			}).Warn("notification failed")
		}
	}
}

func (s *schedulerService) Remind(ctx context.Context, caller model.Caller, documentID string) (int, error) {
	if err := requireWrite(caller); err != nil {
		return 0, err
	}
	doc, err := s.docs.FindByID(ctx, caller.TenantID, documentID)
	if err != nil {
		return 0, storeError(err, "document not found")
	}
	return s.remind(ctx, doc, nil, nil)
}

func (s *schedulerService) remind(ctx context.Context, doc *model.Document, remindedBefore, dueBefore *time.Time) (int, error) {
	rows, err := s.dists.RemindPending(ctx, doc.TenantID, doc.ID, s.now(), remindedBefore, dueBefore)
	if err != nil {
		return 0, storeError(err, "document not found")
	}
	s.notifyAll(ctx, doc, rows, notify.KindReminder, "Reminder: please acknowledge "+doc.ControlNumber)
	return len(rows), nil
}

func (s *schedulerService) RemindOverdue(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.Add(-s.reminderGap)
	refs, err := s.dists.OverdueDocuments(ctx, now, cutoff)
	if err != nil {
		return 0, storeError(err, "document not found")
	}

	var (
		sent int
		errs *multierror.Error
	)
	for _, ref := range refs {
		doc, err := s.docs.FindByID(ctx, ref.TenantID, ref.DocumentID)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("document %s: %w", ref.DocumentID, err))
			continue
		}
		// Rows not yet past their required-by date are not part of the sweep.
		n, err := s.remind(ctx, doc, &cutoff, &now)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("document %s: %w", ref.DocumentID, err))
			continue
		}
		sent += n
	}
	return sent, errs.ErrorOrNil()
}

func (s *schedulerService) Acknowledge(ctx context.Context, caller model.Caller, distributionID string) (*model.Distribution, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	d, err := s.dists.FindByID(ctx, caller.TenantID, distributionID)
	if err != nil {
		return nil, storeError(err, "distribution not found")
	}
	if d.RecipientID != caller.UserID && !caller.CanWrite() {
		return nil, apperr.Forbidden("only the recipient may acknowledge")
	}
	if d.Acknowledged {
		return d, nil
	}

	acked, err := s.dists.Acknowledge(ctx, caller.TenantID, distributionID, s.now())
	if err != nil {
		return nil, storeError(err, "distribution not found")
	}
	return acked, nil
}

func (s *schedulerService) ListDistributions(ctx context.Context, caller model.Caller, documentID string) ([]DistributionView, error) {
	if err := requireRead(caller); err != nil {
		return nil, err
	}
	if _, err := s.docs.FindByID(ctx, caller.TenantID, documentID); err != nil {
		return nil, storeError(err, "document not found")
	}
	rows, err := s.dists.ListByDocument(ctx, caller.TenantID, documentID)
	if err != nil {
		return nil, storeError(err, "document not found")
	}

	now := s.now()
	out := make([]DistributionView, 0, len(rows))
	for _, d := range rows {
		out = append(out, DistributionView{Distribution: d, State: d.State(now)})
	}
	return out, nil
}
