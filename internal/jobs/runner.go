// Package jobs runs periodic background work on cron schedules.
package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

// Task is one unit of scheduled work.
type Task func(ctx context.Context) error

// Runner schedules tasks with cron. A run that is still in progress when the next
// tick fires is skipped, never stacked.
type Runner struct {
	cron    *cron.Cron
	log     logrus.FieldLogger
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewRunner returns a stopped runner. timeout bounds each run; zero means no bound.
func NewRunner(timeout time.Duration, log logrus.FieldLogger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		cron:    cron.New(),
		log:     log.WithField("component", "jobs"),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers task under a cron spec such as "@daily" or "0 0 7 * * *".
func (r *Runner) Add(name, spec string, task Task) error {
	return r.cron.AddFunc(spec, r.guard(name, task))
}

func (r *Runner) Start() {
	r.log.Info("starting scheduled jobs")
	r.cron.Start()
}

// Stop halts scheduling and cancels runs in progress.
func (r *Runner) Stop() {
	r.log.Info("stopping scheduled jobs")
	r.cron.Stop()
	r.cancel()
}

func (r *Runner) guard(name string, task Task) func() {
	var running atomic.Bool
	log := r.log.WithField("job", name)

	return func() {
		if !running.CompareAndSwap(false, true) {
			log.Warn("previous run still in progress, skipping")
			return
		}
		defer running.Store(false)

		ctx := r.ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		start := time.Now()
		if err := task(ctx); err != nil {
			log.WithError(err).Error("job failed")
			return
		}
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("job finished")
	}
}
