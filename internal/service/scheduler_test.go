package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"complyhub/internal/apperr"
	"complyhub/internal/model"
	"complyhub/internal/notify"
	notifyMocks "complyhub/internal/notify/mocks"
	"complyhub/internal/repository"
	repoMocks "complyhub/internal/repository/mocks"
)

type schedulerFixture struct {
	docs     *repoMocks.MockDocumentRepository
	dists    *repoMocks.MockDistributionRepository
	notifier *notifyMocks.MockNotifier
	svc      *schedulerService
}

func newSchedulerFixture() *schedulerFixture {
	f := &schedulerFixture{
		docs:     new(repoMocks.MockDocumentRepository),
		dists:    new(repoMocks.MockDistributionRepository),
		notifier: new(notifyMocks.MockNotifier),
	}
	f.svc = NewSchedulerService(f.docs, f.dists, f.notifier, 24*time.Hour, nullLogger()).(*schedulerService)
	f.svc.now = fixedClock
	return f
}

func reviewDoc(id string, at *time.Time) model.Document {
	return model.Document{ID: id, NextReviewDate: at}
}

func TestBucketReviews(t *testing.T) {
	at := func(d time.Duration) *time.Time { v := fixedNow.Add(d); return &v }
	day := 24 * time.Hour

	b := BucketReviews([]model.Document{
		reviewDoc("yesterday", at(-day)),
		reviewDoc("now", at(0)),
		reviewDoc("week", at(7*day)),
		reviewDoc("eight", at(8*day)),
		reviewDoc("undated", nil),
	}, fixedNow)

	ids := func(docs []model.Document) []string {
		out := []string{}
		for _, d := range docs {
			out = append(out, d.ID)
		}
		return out
	}
	assert.Equal(t, []string{"yesterday"}, ids(b.Overdue))
	assert.Equal(t, []string{"now", "week"}, ids(b.DueThisWeek))
	assert.Equal(t, []string{"eight"}, ids(b.Upcoming))
}

func TestSchedulerService_Reviews(t *testing.T) {
	f := newSchedulerFixture()
	f.docs.On("DueForReview", ctx, "t1", time.Time{}, fixedNow.AddDate(0, 0, 60)).Return([]model.Document{}, nil)

	b, err := f.svc.Reviews(ctx, worker, 60)
	require.NoError(t, err)
	assert.NotNil(t, b.Overdue)

	_, err = f.svc.Reviews(ctx, worker, 400)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSchedulerService_Distribute(t *testing.T) {
	doc := &model.Document{ID: "d1", TenantID: "t1", ControlNumber: "NCCI-POL-001", Title: "Policy"}

	t.Run("creates rows and notifies new recipients", func(t *testing.T) {
		f := newSchedulerFixture()
		f.docs.On("FindByID", ctx, "t1", "d1").Return(doc, nil)
		f.dists.On("Create", ctx, mock.MatchedBy(func(rows []model.Distribution) bool {
			return len(rows) == 2 && rows[0].RecipientID == "u1" && rows[1].RecipientID == "u2" &&
				rows[0].DistributedAt.Equal(fixedNow)
		})).Return([]model.Distribution{{ID: "x1", RecipientID: "u1"}}, nil)
		f.notifier.On("Notify", ctx, "u1", mock.MatchedBy(func(m notify.Message) bool {
			return m.Kind == notify.KindDistributed && m.DocumentID == "d1"
		})).Return(errors.New("smtp down"))

		created, err := f.svc.Distribute(ctx, supervisor, "d1", DistributeInput{RecipientIDs: []string{"u1", " u2", "u1", ""}})
		require.NoError(t, err)
		assert.Len(t, created, 1)
		f.notifier.AssertExpectations(t)
	})

	t.Run("no recipients", func(t *testing.T) {
		f := newSchedulerFixture()
		_, err := f.svc.Distribute(ctx, supervisor, "d1", DistributeInput{RecipientIDs: []string{" "}})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestSchedulerService_Remind(t *testing.T) {
	doc := &model.Document{ID: "d1", TenantID: "t1", ControlNumber: "NCCI-POL-001"}

	t.Run("reminds pending rows", func(t *testing.T) {
		f := newSchedulerFixture()
		f.docs.On("FindByID", ctx, "t1", "d1").Return(doc, nil)
		f.dists.On("RemindPending", ctx, "t1", "d1", fixedNow, (*time.Time)(nil), (*time.Time)(nil)).
			Return([]model.Distribution{{RecipientID: "u1", ReminderCount: 1}, {RecipientID: "u2", ReminderCount: 3}}, nil)
		f.notifier.On("Notify", ctx, mock.Anything, mock.Anything).Return(nil).Twice()

		n, err := f.svc.Remind(ctx, supervisor, "d1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("nothing pending is success", func(t *testing.T) {
		f := newSchedulerFixture()
		f.docs.On("FindByID", ctx, "t1", "d1").Return(doc, nil)
		f.dists.On("RemindPending", ctx, "t1", "d1", fixedNow, (*time.Time)(nil), (*time.Time)(nil)).Return([]model.Distribution{}, nil)

		n, err := f.svc.Remind(ctx, supervisor, "d1")
		require.NoError(t, err)
		assert.Zero(t, n)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSchedulerService_RemindOverdue(t *testing.T) {
	f := newSchedulerFixture()
	cutoff := fixedNow.Add(-24 * time.Hour)
	f.dists.On("OverdueDocuments", ctx, fixedNow, cutoff).Return([]repository.DocumentRef{
		{TenantID: "t1", DocumentID: "d1"},
		{TenantID: "t2", DocumentID: "d2"},
	}, nil)
	f.docs.On("FindByID", ctx, "t1", "d1").Return(&model.Document{ID: "d1", TenantID: "t1"}, nil)
	f.docs.On("FindByID", ctx, "t2", "d2").Return(nil, repository.ErrNotFound)
	f.dists.On("RemindPending", ctx, "t1", "d1", fixedNow, mock.MatchedBy(func(p *time.Time) bool {
		return p != nil && p.Equal(cutoff)
	}), mock.MatchedBy(func(p *time.Time) bool {
		return p != nil && p.Equal(fixedNow)
	})).Return([]model.Distribution{{RecipientID: "u1"}}, nil)
	f.notifier.On("Notify", mock.Anything, "u1", mock.Anything).Return(nil)

	n, err := f.svc.RemindOverdue(context.Background())
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document d2")
}

func TestSchedulerService_Acknowledge(t *testing.T) {
	pending := &model.Distribution{ID: "x1", RecipientID: "u-work"}

	t.Run("recipient acknowledges", func(t *testing.T) {
		f := newSchedulerFixture()
		f.dists.On("FindByID", ctx, "t1", "x1").Return(pending, nil)
		f.dists.On("Acknowledge", ctx, "t1", "x1", fixedNow).Return(&model.Distribution{ID: "x1", Acknowledged: true}, nil)

		d, err := f.svc.Acknowledge(ctx, worker, "x1")
		require.NoError(t, err)
		assert.True(t, d.Acknowledged)
	})

	t.Run("already acknowledged is unchanged", func(t *testing.T) {
		f := newSchedulerFixture()
		acked := &model.Distribution{ID: "x1", RecipientID: "u-work", Acknowledged: true, ReminderCount: 2}
		f.dists.On("FindByID", ctx, "t1", "x1").Return(acked, nil)

		d, err := f.svc.Acknowledge(ctx, worker, "x1")
		require.NoError(t, err)
		assert.Same(t, acked, d)
		f.dists.AssertNotCalled(t, "Acknowledge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("another worker may not acknowledge", func(t *testing.T) {
		f := newSchedulerFixture()
		f.dists.On("FindByID", ctx, "t1", "x1").Return(&model.Distribution{ID: "x1", RecipientID: "someone"}, nil)

		_, err := f.svc.Acknowledge(ctx, worker, "x1")
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})
}

func TestSchedulerService_ListDistributions(t *testing.T) {
	f := newSchedulerFixture()
	past := fixedNow.Add(-time.Hour)
	f.docs.On("FindByID", ctx, "t1", "d1").Return(&model.Document{ID: "d1"}, nil)
	f.dists.On("ListByDocument", ctx, "t1", "d1").Return([]model.Distribution{
		{ID: "a", Acknowledged: true},
		{ID: "b", RequiredByDate: &past},
		{ID: "c"},
	}, nil)

	views, err := f.svc.ListDistributions(ctx, worker, "d1")
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, model.DistributionAcknowledged, views[0].State)
	assert.Equal(t, model.DistributionOverdue, views[1].State)
	assert.Equal(t, model.DistributionPending, views[2].State)
}
