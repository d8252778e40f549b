package model

import "time"

// LinkSource tells whether an element link was asserted by a user or inferred.
type LinkSource string

const (
	LinkSourceManual LinkSource = "manual"
	LinkSourceAuto   LinkSource = "auto"
)

// ManualConfidence is the confidence stored on every manual link.
const ManualConfidence = 100

// AuditElementLink associates a document with a regulatory element.
type AuditElementLink struct {
	ID            string     `json:"id"`
	DocumentID    string     `json:"document_id"`
	ElementNumber int        `json:"element_number"`
	Source        LinkSource `json:"source"`
	Confidence    int        `json:"confidence"`
	CreatedBy     *string    `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
