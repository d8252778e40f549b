package model

import "time"

// DistributionState is derived from a distribution row; only acknowledged is stored.
type DistributionState string

const (
	DistributionPending      DistributionState = "pending"
	DistributionAcknowledged DistributionState = "acknowledged"
	DistributionOverdue      DistributionState = "overdue"
)

// Distribution records that a document was routed to a recipient for acknowledgment.
type Distribution struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	DocumentID     string     `json:"document_id"`
	RecipientID    string     `json:"recipient_id"`
	DistributedAt  time.Time  `json:"distributed_at"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ReminderCount  int        `json:"reminder_count"`
	LastReminderAt *time.Time `json:"last_reminder_at,omitempty"`
	RequiredByDate *time.Time `json:"required_by_date,omitempty"`
}

// State classifies the distribution at the given instant.
func (d Distribution) State(now time.Time) DistributionState {
	if d.Acknowledged {
		return DistributionAcknowledged
	}
	if d.RequiredByDate != nil && d.RequiredByDate.Before(now) {
		return DistributionOverdue
	}
	return DistributionPending
}
