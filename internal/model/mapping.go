package model

import "time"

// EvidenceSource names a kind of record that can back an element.
type EvidenceSource string

const (
	EvidenceSourceDocument       EvidenceSource = "document"
	EvidenceSourceFormSubmission EvidenceSource = "form_submission"
	EvidenceSourceCertification  EvidenceSource = "certification"
	EvidenceSourceTraining       EvidenceSource = "training"
	EvidenceSourceMaintenance    EvidenceSource = "maintenance"
)

// Valid reports whether s is a known evidence source.
func (s EvidenceSource) Valid() bool {
	switch s {
	case EvidenceSourceDocument, EvidenceSourceFormSubmission, EvidenceSourceCertification,
		EvidenceSourceTraining, EvidenceSourceMaintenance:
		return true
	}
	return false
}

// EvidenceMapping connects an element and evidence source to a question in the external audit system.
type EvidenceMapping struct {
	ID                 string         `json:"id"`
	TenantID           string         `json:"tenant_id"`
	ElementNumber      int            `json:"element_number"`
	EvidenceSource     EvidenceSource `json:"evidence_source"`
	SourceID           *string        `json:"source_id,omitempty"`
	ExternalQuestionID *string        `json:"external_question_id,omitempty"`
	Category           *string        `json:"category,omitempty"`
	Notes              *string        `json:"notes,omitempty"`
	IsActive           bool           `json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// EvidenceRecord is a non-document record (form completion, certificate, training, maintenance)
// tied to an element.
type EvidenceRecord struct {
	ID            string         `json:"id"`
	TenantID      string         `json:"tenant_id"`
	ElementNumber int            `json:"element_number"`
	Source        EvidenceSource `json:"source"`
	ReferenceID   *string        `json:"reference_id,omitempty"`
	Title         string         `json:"title"`
	RecordDate    time.Time      `json:"record_date"`
	CreatedBy     string         `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
}
