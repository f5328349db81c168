package classify

// Precedence is a source's ordered label preference, used to resolve a
// record whose publication types from that source signal both labels.
// Sources declare their own precedence in configuration; an empty list
// means conflicting signals abstain.
type Precedence []Label

// ResolveVote reduces a source's normalized token matches to a single vote.
func ResolveVote(matches []TokenMatch, precedence Precedence) Vote {
	var hasReview, hasNonReview bool
	for _, m := range matches {
		switch m.Label {
		case LabelReview:
			hasReview = true
		case LabelNonReview:
			hasNonReview = true
		}
	}
	switch {
	case !hasReview && !hasNonReview:
		return VoteAbstain
	case hasReview && !hasNonReview:
		return VoteReview
	case hasNonReview && !hasReview:
		return VoteNonReview
	}
	for _, label := range precedence {
		switch label {
		case LabelReview:
			return VoteReview
		case LabelNonReview:
			return VoteNonReview
		}
	}
	return VoteAbstain
}

func matchTokens(matches []TokenMatch) []string {
	if len(matches) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m.Token)
	}
	return tokens
}
