package model

import "time"

// Status is a document lifecycle state.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusActive      Status = "active"
	StatusApproved    Status = "approved"
	StatusUnderReview Status = "under_review"
	StatusArchived    Status = "archived"
	StatusObsolete    Status = "obsolete"
)

// transitions lists the allowed forward edges; obsolete is reachable from every other state.
var transitions = map[Status][]Status{
	StatusDraft:       {StatusActive},
	StatusActive:      {StatusApproved},
	StatusApproved:    {StatusUnderReview},
	StatusUnderReview: {StatusActive, StatusArchived},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusApproved, StatusUnderReview, StatusArchived, StatusObsolete:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle graph has an edge s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() || s == StatusObsolete {
		return false
	}
	if next == StatusObsolete {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCurrent reports whether documents in this status count as live evidence.
func (s Status) IsCurrent() bool {
	return s == StatusActive || s == StatusApproved
}

// Origin records how a document entered the registry.
type Origin string

const (
	OriginManual    Origin = "manual"
	OriginConverted Origin = "converted"
)

// Document is one controlled record owned by a tenant.
// Documents are never deleted; they move to archived or obsolete instead.
type Document struct {
	ID                        string     `json:"id"`
	TenantID                  string     `json:"tenant_id"`
	ControlNumber             string     `json:"control_number"`
	Title                     string     `json:"title"`
	DocumentTypeCode          string     `json:"document_type_code"`
	Status                    Status     `json:"status"`
	Origin                    Origin     `json:"origin"`
	CurrentVersion            int        `json:"current_version"`
	FolderID                  *string    `json:"folder_id,omitempty"`
	Elements                  []int      `json:"elements"`
	Tags                      []string   `json:"tags"`
	Keywords                  []string   `json:"keywords"`
	EffectiveDate             *time.Time `json:"effective_date,omitempty"`
	ExpiryDate                *time.Time `json:"expiry_date,omitempty"`
	NextReviewDate            *time.Time `json:"next_review_date,omitempty"`
	RelatedDocumentIDs        []string   `json:"related_document_ids"`
	SupersedesControlNumber   *string    `json:"supersedes_control_number,omitempty"`
	SupersededByControlNumber *string    `json:"superseded_by_control_number,omitempty"`
	ViewCount                 int        `json:"view_count"`
	LastViewedAt              *time.Time `json:"last_viewed_at,omitempty"`
	CreatedBy                 string     `json:"created_by"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

// DocumentVersion is an immutable snapshot of a document's file.
type DocumentVersion struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	VersionNumber int       `json:"version_number"`
	FileReference string    `json:"file_reference"`
	ContentType   string    `json:"content_type"`
	ExtractedText *string   `json:"extracted_text,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasText reports whether extraction produced any text for this version.
func (v *DocumentVersion) HasText() bool {
	return v != nil && v.ExtractedText != nil && *v.ExtractedText != ""
}

// RelatedDocuments groups the relationships of one document.
type RelatedDocuments struct {
	References   []Document `json:"references"`
	ReferencedBy []Document `json:"referenced_by"`
	Supersedes   []Document `json:"supersedes"`
	SupersededBy []Document `json:"superseded_by"`
}
