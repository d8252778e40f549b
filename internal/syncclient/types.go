package syncclient

import "fmt"

// UploadItem is one evidence item pushed to the external audit-management API.
type UploadItem struct {
	ElementNumber int            `json:"element_number"`
	QuestionID    string         `json:"question_id"`
	EvidenceType  string         `json:"evidence_type"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Date          string         `json:"date"`
	File          string         `json:"file,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// uploadResponse mirrors {success, external_item_id} or {success, error}. Pointers
// let validation tell a missing field from a zero value.
type uploadResponse struct {
	Success        *bool   `json:"success"`
	ExternalItemID *string `json:"external_item_id"`
	Error          *string `json:"error"`
}

// UploadResult is a successful upload.
type UploadResult struct {
	Index          int    `json:"index"`
	QuestionID     string `json:"question_id"`
	ExternalItemID string `json:"external_item_id"`
}

// ItemError is a failed upload inside a bulk run.
type ItemError struct {
	Index      int    `json:"index"`
	QuestionID string `json:"question_id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// BulkResult summarizes a bulk upload.
type BulkResult struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []UploadResult `json:"results"`
	Errors    []ItemError    `json:"errors"`
}

// ProgressFunc is called after every item of a bulk upload, in order.
type ProgressFunc func(done, total int)

// RejectedError is a well-formed {success: false} answer from the remote side.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("external api rejected the item: %s", e.Reason)
}
