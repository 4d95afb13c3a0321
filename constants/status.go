package constants

// CaseStatus is the canonical lifecycle status for rows in cases.
type CaseStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending    CaseStatus = "pending"    // created, waiting in queue
	StatusProcessing CaseStatus = "processing" // picked up by the consumer
	StatusCompleted  CaseStatus = "completed"  // summary persisted
	StatusFailed     CaseStatus = "failed"     // terminal failure, error recorded
)

var allStatuses = []CaseStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}

// Valid reports whether s is one of the known statuses.
func (s CaseStatus) Valid() bool {
	for _, st := range allStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal reports whether a case in this status will never change again.
func (s CaseStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether the forward-only state machine allows s -> next.
// pending -> processing -> completed|failed. No cycles, no re-entry.
func (s CaseStatus) CanTransition(next CaseStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// StatusStrings returns all statuses as plain strings, for stats queries.
func StatusStrings() []string {
	out := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		out[i] = string(s)
	}
	return out
}
