package entity

import (
	"encoding/json"
	"time"
)

// Feedback is a reviewer rating of a produced summary.
type Feedback struct {
	ID          int64           `json:"id"`
	CaseID      string          `json:"case_id"`
	Rating      int             `json:"rating"`
	Comments    string          `json:"comments,omitempty"`
	Corrections json.RawMessage `json:"corrections,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CaseStats aggregates case counts and summary averages for reporting.
type CaseStats struct {
	Total             int     `json:"total"`
	Pending           int     `json:"pending"`
	Processing        int     `json:"processing"`
	Completed         int     `json:"completed"`
	Failed            int     `json:"failed"`
	AvgConfidence     float64 `json:"avg_confidence"`
	AvgProcessingTime float64 `json:"avg_processing_time"`
}
