// Package core defines the essential data structures shared across the
// moderation pipeline: classification verdicts, review queue items, and the
// content entities the platform submits for screening.
package core

import "time"

// ItemType identifies which kind of entity a review queue item refers to.
type ItemType string

const (
	ItemTypeArticle  ItemType = "article"
	ItemTypeHowTo    ItemType = "how_to"
	ItemTypePost     ItemType = "post"
	ItemTypeBusiness ItemType = "business"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeArticle, ItemTypeHowTo, ItemTypePost, ItemTypeBusiness:
		return true
	default:
		return false
	}
}

// ReviewStatus is the lifecycle state of a review queue item. Items start
// as pending and transition exactly once to approved or rejected.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// Verdict is the structured output of one classification call. It is
// produced fresh per call and never persisted or cached.
type Verdict struct {
	IsFlagged       bool     `json:"is_flagged"`
	Reason          string   `json:"reason"`
	ConfidenceScore int      `json:"confidence_score"` // 0-100
	Categories      []string `json:"categories"`
}

// SafeVerdict is the fail-open default returned when the classifier is
// unavailable: the content passes unscreened rather than being blocked.
func SafeVerdict() Verdict {
	return Verdict{IsFlagged: false, Reason: "", ConfidenceScore: 0, Categories: []string{}}
}

// ValidationResult is the outcome of a business listing validation call.
type ValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	Issues          []string `json:"issues"`
	Suggestions     []string `json:"suggestions"`
	ConfidenceScore int      `json:"confidence_score"` // 0-100
}

// SafeValidationResult is the fail-open default for listing validation:
// a classifier outage must not block legitimate businesses.
func SafeValidationResult() ValidationResult {
	return ValidationResult{IsValid: true, Issues: []string{}, Suggestions: []string{}, ConfidenceScore: 0}
}

// ReviewQueueItem is one AI-flagged submission awaiting admin resolution.
// AIScore, AIReasoning and CreatedAt are immutable once written; items are
// never deleted so the queue doubles as an audit trail.
type ReviewQueueItem struct {
	ID          int64        `json:"id" db:"id"`
	ItemType    ItemType     `json:"item_type" db:"item_type"`
	ItemID      int64        `json:"item_id" db:"item_id"`
	Flags       []string     `json:"flags" db:"flags"` // verdict categories, insertion order, not deduplicated
	AIScore     int          `json:"ai_score" db:"ai_score"`
	AIReasoning string       `json:"ai_reasoning" db:"ai_reasoning"`
	Status      ReviewStatus `json:"status" db:"status"`
	ReviewedBy  *string      `json:"reviewed_by" db:"reviewed_by"`
	ReviewNotes *string      `json:"review_notes" db:"review_notes"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	ReviewedAt  *time.Time   `json:"reviewed_at" db:"reviewed_at"`
}
