package classify

import (
	"fmt"
	"strings"
)

// Mode selects the vote aggregation policy. The two policies can disagree
// on a record, so a deployment picks exactly one; they are never blended.
type Mode string

const (
	ModeMajority Mode = "majority"
	ModeWeighted Mode = "weighted"
)

// Decision rules recorded for auditability.
const (
	RuleMajority   = "majority"
	RuleWeighted   = "weighted"
	RuleMeshRefine = "mesh_refine"
	RuleNoSignal   = "no_signal"
)

// Outcome is the aggregator's verdict for one record: either a confident
// label, or ambiguity deferred to the MeSH refiner.
type Outcome struct {
	Label       Label
	Ambiguous   bool
	Rule        string
	Evidence    string
	ReviewVotes int
	Scores      map[Label]float64
}

// Aggregator combines per-source votes under the configured policy.
type Aggregator struct {
	mode           Mode
	minReviewVotes int
	weights        map[string]float64
	scoreMargin    float64
}

// NewAggregator builds an aggregator for the given mode. weights is only
// consulted in weighted mode and maps source names to non-negative weights.
func NewAggregator(mode Mode, minReviewVotes int, weights map[string]float64, scoreMargin float64) *Aggregator {
	return &Aggregator{
		mode:           mode,
		minReviewVotes: minReviewVotes,
		weights:        weights,
		scoreMargin:    scoreMargin,
	}
}

// Aggregate reduces the record's votes to an Outcome. Ties between review
// and non_review never resolve silently; they are always deferred.
func (a *Aggregator) Aggregate(votes []SourceVote) Outcome {
	if a.mode == ModeWeighted {
		return a.aggregateWeighted(votes)
	}
	return a.aggregateMajority(votes)
}

func (a *Aggregator) aggregateMajority(votes []SourceVote) Outcome {
	var reviewSources []string
	nonReview := 0
	for _, v := range votes {
		switch v.Vote {
		case VoteReview:
			reviewSources = append(reviewSources, v.Source)
		case VoteNonReview:
			nonReview++
		}
	}
	review := len(reviewSources)
	switch {
	case review >= a.minReviewVotes:
		return Outcome{
			Label:       LabelReview,
			Rule:        RuleMajority,
			ReviewVotes: review,
			Evidence:    fmt.Sprintf("majority: %s", strings.Join(reviewSources, ", ")),
		}
	case review == 0 && nonReview > 0:
		return Outcome{
			Label:    LabelNonReview,
			Rule:     RuleMajority,
			Evidence: "majority: no review votes",
		}
	default:
		// One lone review vote, or no usable votes at all.
		return Outcome{Ambiguous: true, Rule: RuleMajority, ReviewVotes: review}
	}
}

func (a *Aggregator) aggregateWeighted(votes []SourceVote) Outcome {
	scores := map[Label]float64{LabelReview: 0, LabelNonReview: 0}
	reviewVotes := 0
	for _, v := range votes {
		weight, ok := a.weights[v.Source]
		if !ok {
			continue
		}
		switch v.Vote {
		case VoteReview:
			scores[LabelReview] += weight
			reviewVotes++
		case VoteNonReview:
			scores[LabelNonReview] += weight
		}
	}
	rev, non := scores[LabelReview], scores[LabelNonReview]
	evidence := fmt.Sprintf("weighted: review=%.2f non_review=%.2f", rev, non)
	base := Outcome{Rule: RuleWeighted, ReviewVotes: reviewVotes, Scores: scores, Evidence: evidence}
	switch {
	case rev == 0 && non == 0:
		base.Ambiguous = true
	case rev == non:
		base.Ambiguous = true
	case rev > non && rev-non >= a.scoreMargin:
		base.Label = LabelReview
	case non > rev && non-rev >= a.scoreMargin:
		base.Label = LabelNonReview
	default:
		base.Ambiguous = true
	}
	return base
}
