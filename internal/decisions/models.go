package decisions

import "time"

// Run is one classification run over an input file.
type Run struct {
	ID          string
	StartedAt   time.Time
	CompletedAt *time.Time
	InputPath   string
	Mode        string
	Records     int
	Rejected    int
}

// StoredDecision is one persisted decision row. ProvenanceJSON carries the
// full classify.Decision as written, so a stored run can be re-exported
// byte-identically.
type StoredDecision struct {
	RunID             string
	Seq               int
	RecordID          string
	Label             string
	Rule              string
	Note              string
	Margin            float64
	ScoreReview       float64
	ScoreExperimental float64
	ProvenanceJSON    string
	CreatedAt         time.Time
}
