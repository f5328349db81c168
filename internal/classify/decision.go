package classify

// Decision is the final, immutable classification of one record together
// with the provenance needed to audit it: the per-source votes in
// configured source order, the aggregate scores, and the top contributing
// MeSH terms. One Decision becomes one output row and, optionally, one
// JSONL trace line.
type Decision struct {
	RecordID          string            `json:"record_id"`
	Label             Label             `json:"label"`
	Rule              string            `json:"rule"`
	Note              string            `json:"note,omitempty"`
	Evidence          string            `json:"evidence,omitempty"`
	ReviewVotes       int               `json:"review_votes"`
	Votes             []SourceVote      `json:"votes"`
	VoteScores        map[Label]float64 `json:"vote_scores,omitempty"`
	ScoreReview       float64           `json:"score_review"`
	ScoreExperimental float64           `json:"score_experimental"`
	Margin            float64           `json:"margin"`
	TermsUsed         int               `json:"terms_used"`
	TopTerms          []TermProb        `json:"top_terms,omitempty"`
}
