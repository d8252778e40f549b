package jobs

import (
	"context"

	"github.com/sirupsen/logrus"
)

// OverdueReminder sends reminders for overdue distributions.
type OverdueReminder interface {
	RemindOverdue(ctx context.Context) (int, error)
}

// ReminderSweep is the task behind the periodic overdue reminder.
func ReminderSweep(r OverdueReminder, log logrus.FieldLogger) Task {
	return func(ctx context.Context) error {
		n, err := r.RemindOverdue(ctx)
		if n > 0 {
			log.WithField("reminded", n).Info("overdue reminders sent")
		}
		return err
	}
}
