package classify

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Decision notes recorded alongside the rule.
const (
	NoteNoSignal      = "no_signal"
	NoteNoMeshSignal  = "no_mesh_signal"
	NoteLowTerms      = "low_terms"
	NoteMeshAmbiguous = "mesh_ambiguous"
)

// TermProb is one contributing MeSH term with its experimental probability.
type TermProb struct {
	Term string  `json:"term"`
	P    float64 `json:"p"`
}

// Refiner resolves records the vote aggregator left ambiguous by comparing
// aggregate MeSH review/experimental scores against a margin threshold.
type Refiner struct {
	delta       float64
	kMin        int
	unknownMode bool
	fallback    Label
	epsilon     float64
	topTerms    int
}

// NewRefiner constructs a refiner. fallback is the label assigned when the
// MeSH signal cannot resolve the record and unknownMode is off; epsilon is
// an optional nudge added to the review score when exactly one upstream
// source already voted review (zero disables it).
func NewRefiner(delta float64, kMin int, unknownMode bool, fallback Label, epsilon float64, topTerms int) *Refiner {
	return &Refiner{
		delta:       delta,
		kMin:        kMin,
		unknownMode: unknownMode,
		fallback:    fallback,
		epsilon:     epsilon,
		topTerms:    topTerms,
	}
}

// Refinement is the refiner's resolution together with the score detail
// retained for provenance. TopTerms is populated whenever terms exist,
// regardless of which branch resolved the record.
type Refinement struct {
	Label       Label
	Note        string
	ScoreReview float64
	ScoreExp    float64
	Margin      float64
	TermsUsed   int
	TopTerms    []TermProb
}

// Refine scores the record's MeSH terms. Each term contributes its
// experimental probability to the experimental score and the complement
// to the review score.
func (r *Refiner) Refine(terms []MeshTerm, nudgeReview bool) Refinement {
	var scoreExp, scoreReview float64
	for _, t := range terms {
		scoreExp += t.Experimental
		scoreReview += 1 - t.Experimental
	}
	if nudgeReview && r.epsilon > 0 {
		scoreReview += r.epsilon
	}

	res := Refinement{
		ScoreReview: scoreReview,
		ScoreExp:    scoreExp,
		Margin:      math.Abs(scoreReview - scoreExp),
		TermsUsed:   len(terms),
		TopTerms:    topContributing(terms, r.topTerms),
	}

	switch {
	case len(terms) == 0:
		res.Note = NoteNoMeshSignal
		res.Label = r.fallbackLabel()
	case len(terms) < r.kMin:
		res.Note = NoteLowTerms
		res.Label = r.fallbackLabel()
	case res.Margin >= r.delta && scoreReview != scoreExp:
		if scoreReview > scoreExp {
			res.Label = LabelReview
		} else {
			res.Label = LabelNonReview
		}
	default:
		res.Note = NoteMeshAmbiguous
		res.Label = r.fallbackLabel()
	}
	return res
}

func (r *Refiner) fallbackLabel() Label {
	if r.unknownMode {
		return LabelUnknown
	}
	return r.fallback
}

// topContributing ranks terms by distance from the uninformative 0.5
// midpoint; ties break on term text for determinism.
func topContributing(terms []MeshTerm, n int) []TermProb {
	if len(terms) == 0 || n <= 0 {
		return nil
	}
	ranked := make([]TermProb, 0, len(terms))
	for _, t := range terms {
		ranked = append(ranked, TermProb{Term: t.Term, P: t.Experimental})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := math.Abs(ranked[i].P-0.5), math.Abs(ranked[j].P-0.5)
		if di != dj {
			return di > dj
		}
		return ranked[i].Term < ranked[j].Term
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// formatTopTerms renders ranked terms for evidence strings.
func formatTopTerms(terms []TermProb) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("%s:%.4f", t.Term, t.P))
	}
	return strings.Join(parts, ", ")
}
