package model

// EvidenceStatus is the sufficiency classification of one element.
type EvidenceStatus string

const (
	EvidenceSufficient   EvidenceStatus = "sufficient"
	EvidencePartial      EvidenceStatus = "partial"
	EvidenceInsufficient EvidenceStatus = "insufficient"
)

// Rank orders statuses for display: insufficient first.
func (s EvidenceStatus) Rank() int {
	switch s {
	case EvidenceInsufficient:
		return 0
	case EvidencePartial:
		return 1
	default:
		return 2
	}
}

// ElementEvidenceSummary is the derived per-element evidence view. It is never persisted.
type ElementEvidenceSummary struct {
	ElementNumber         int            `json:"element_number"`
	ElementName           string         `json:"element_name"`
	TotalForms            int            `json:"total_forms"`
	ConvertedForms        int            `json:"converted_forms"`
	ManualForms           int            `json:"manual_forms"`
	SubmissionsLast90Days int            `json:"submissions_last_90_days"`
	EvidenceStatus        EvidenceStatus `json:"evidence_status"`
}
