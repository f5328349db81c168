package classify_test

import (
	"testing"

	"revclass/internal/classify"
)

func TestResolveVote(t *testing.T) {
	review := classify.TokenMatch{Token: "review", Label: classify.LabelReview}
	article := classify.TokenMatch{Token: "journal article", Label: classify.LabelNonReview}

	cases := []struct {
		name       string
		matches    []classify.TokenMatch
		precedence classify.Precedence
		want       classify.Vote
	}{
		{"no matches abstain", nil, classify.Precedence{classify.LabelReview}, classify.VoteAbstain},
		{"review only", []classify.TokenMatch{review}, nil, classify.VoteReview},
		{"non-review only", []classify.TokenMatch{article}, nil, classify.VoteNonReview},
		{
			"conflict resolved by review precedence",
			[]classify.TokenMatch{article, review},
			classify.Precedence{classify.LabelReview, classify.LabelNonReview},
			classify.VoteReview,
		},
		{
			"conflict resolved by non-review precedence",
			[]classify.TokenMatch{article, review},
			classify.Precedence{classify.LabelNonReview, classify.LabelReview},
			classify.VoteNonReview,
		},
		{
			"conflict without precedence abstains",
			[]classify.TokenMatch{article, review},
			nil,
			classify.VoteAbstain,
		},
		{
			"unknown entries in precedence skipped",
			[]classify.TokenMatch{article, review},
			classify.Precedence{classify.LabelUnknown, classify.LabelNonReview},
			classify.VoteNonReview,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify.ResolveVote(tc.matches, tc.precedence); got != tc.want {
				t.Fatalf("ResolveVote = %s, want %s", got, tc.want)
			}
		})
	}
}
