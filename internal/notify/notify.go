// Package notify delivers messages to recipients. Delivery is a collaborator of the
// scheduler; failures are reported to the caller, which logs and moves on.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Message is what a recipient is told about a document.
type Message struct {
	Kind       string
	TenantID   string
	DocumentID string
	Subject    string
	Body       string
}

const (
	KindDistributed = "distributed"
	KindReminder    = "reminder"
)

// Notifier sends one message to one recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID string, msg Message) error
}

// LogNotifier writes notifications to the structured log. It stands in for push or
// email delivery, which live outside this service.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log.WithField("component", "notify")}
}

func (n *LogNotifier) Notify(_ context.Context, recipientID string, msg Message) error {
	n.log.WithFields(logrus.Fields{
		"event":        "notification",
		"kind":         msg.Kind,
		"tenant_id":    msg.TenantID,
		"document_id":  msg.DocumentID,
		"recipient_id": recipientID,
	}).Info(msg.Subject)
	return nil
}
