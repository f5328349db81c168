package classify

// Label is a canonical classification category.
type Label string

const (
	LabelReview    Label = "review"
	LabelNonReview Label = "non_review"
	LabelUnknown   Label = "unknown"
)

// ParseLabel validates a label string from configuration or storage.
func ParseLabel(value string) (Label, bool) {
	switch Label(value) {
	case LabelReview, LabelNonReview, LabelUnknown:
		return Label(value), true
	}
	return "", false
}

// Vote is a single source's contribution to a record's classification.
type Vote string

const (
	VoteReview    Vote = "review"
	VoteNonReview Vote = "non_review"
	VoteAbstain   Vote = "abstain"
)

// SourceVote pairs a source name with the vote it cast for one record,
// along with the canonical tokens that produced it.
type SourceVote struct {
	Source string   `json:"source"`
	Vote   Vote     `json:"vote"`
	Tokens []string `json:"tokens,omitempty"`
}
