package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/nishant-rao/legal-summarizer/constants"
)

// Case represents one submitted document and its processing record.
type Case struct {
	CaseID      string               `json:"case_id"`
	Filename    string               `json:"filename"`
	MediaType   constants.MediaType  `json:"media_type"`
	SourcePath  string               `json:"source_path"`
	Status      constants.CaseStatus `json:"status"`
	Error       string               `json:"error,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// QueueItem is the unit handed from upload producers to the single consumer.
// Ephemeral: it exists only between enqueue and dequeue.
type QueueItem struct {
	CaseID         string
	SourceLocation string
	MediaType      constants.MediaType
}

// NewCaseID returns an identifier in the CASE-<year>-<8 hex> form.
func NewCaseID() string {
	return "CASE-" + time.Now().Format("2006") + "-" + uuid.NewString()[:8]
}
