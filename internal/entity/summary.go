package entity

// TimelineEvent is one validated {event, time} pair. The time field is kept
// as provided; ordering over it is lexical, not calendar-aware.
type TimelineEvent struct {
	Event string `json:"event"`
	Time  string `json:"time"`
}

// Summary is the structured result of a completed case. Created once,
// atomically, when a case transitions to completed; never partially visible.
type Summary struct {
	CaseID          string              `json:"case_id"`
	Overview        string              `json:"overview"`
	KeyPoints       []string            `json:"key_points"`
	Entities        map[string][]string `json:"entities"`
	Timeline        []TimelineEvent     `json:"timeline"`
	LegalReferences []string            `json:"legal_references"`
	ConfidenceScore float64             `json:"confidence_score"`
	ProcessingTime  float64             `json:"processing_time"`
}
