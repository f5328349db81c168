package classify_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"revclass/internal/classify"
)

func testSettings(mode classify.Mode) classify.Settings {
	return classify.Settings{
		Sources: []classify.SourceSettings{
			{
				Name:       "pubmed",
				Weight:     1.0,
				Precedence: classify.Precedence{classify.LabelReview, classify.LabelNonReview},
				Synonyms: classify.SynonymSet{
					Review:    []string{"Review", "Systematic Review", "Meta-Analysis"},
					NonReview: []string{"Journal Article", "Clinical Trial"},
				},
			},
			{
				Name:       "openalex",
				Weight:     0.7,
				Precedence: classify.Precedence{classify.LabelReview, classify.LabelNonReview},
				Synonyms: classify.SynonymSet{
					Review:    []string{"review", "reference-entry"},
					NonReview: []string{"article", "preprint"},
				},
			},
			{
				Name:       "crossref",
				Weight:     0.7,
				Precedence: classify.Precedence{classify.LabelNonReview, classify.LabelReview},
				Synonyms: classify.SynonymSet{
					Review:    []string{"review-article"},
					NonReview: []string{"journal-article", "proceedings-article"},
				},
			},
		},
		Delimiters:     ",;|/",
		Mode:           mode,
		MinReviewVotes: 2,
		Delta:          0.5,
		KMin:           3,
		Fallback:       classify.LabelNonReview,
		Epsilon:        0.3,
		EpsilonSource:  "pubmed",
		TopTerms:       5,
	}
}

func newTestClassifier(t *testing.T, mutate func(*classify.Settings)) *classify.Classifier {
	t.Helper()
	settings := testSettings(classify.ModeMajority)
	if mutate != nil {
		mutate(&settings)
	}
	c, err := classify.New(settings, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestClassifyMajorityQuorum(t *testing.T) {
	c := newTestClassifier(t, nil)
	dec, err := c.Classify(classify.Record{
		ID: "10.1000/r1",
		PublicationTypes: map[string]string{
			"pubmed":   "Review; Journal Article",
			"openalex": "review",
			"crossref": "journal-article",
		},
	})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if dec.Label != classify.LabelReview {
		t.Fatalf("Label = %s, want review", dec.Label)
	}
	if dec.Rule != classify.RuleMajority {
		t.Fatalf("Rule = %q, want majority", dec.Rule)
	}
	if dec.Evidence != "majority: pubmed, openalex" {
		t.Fatalf("Evidence = %q", dec.Evidence)
	}
	if dec.ReviewVotes != 2 {
		t.Fatalf("ReviewVotes = %d, want 2", dec.ReviewVotes)
	}
}

func TestClassifyWeightedMode(t *testing.T) {
	c := newTestClassifier(t, func(s *classify.Settings) {
		s.Mode = classify.ModeWeighted
	})
	dec, err := c.Classify(classify.Record{
		ID: "10.1000/w1",
		PublicationTypes: map[string]string{
			"pubmed":   "Review",
			"openalex": "article",
		},
	})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if dec.Label != classify.LabelReview {
		t.Fatalf("Label = %s, want review", dec.Label)
	}
	if dec.Rule != classify.RuleWeighted {
		t.Fatalf("Rule = %q, want weighted", dec.Rule)
	}
	if dec.VoteScores[classify.LabelReview] != 1.0 || dec.VoteScores[classify.LabelNonReview] != 0.7 {
		t.Fatalf("VoteScores = %v", dec.VoteScores)
	}
}

func TestClassifyMeshRefinementOnAmbiguousVotes(t *testing.T) {
	c := newTestClassifier(t, nil)
	dec, err := c.Classify(classify.Record{
		ID: "pmid:12345",
		PublicationTypes: map[string]string{
			"pubmed":   "Review",
			"openalex": "article",
			"crossref": "journal-article",
		},
		MeshTerms: []classify.MeshTerm{
			{Term: "meta analysis", Experimental: 0.05},
			{Term: "systematic review as topic", Experimental: 0.1},
			{Term: "humans", Experimental: 0.4},
		},
	})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if dec.Rule != classify.RuleMeshRefine {
		t.Fatalf("Rule = %q, want mesh_refine", dec.Rule)
	}
	if dec.Label != classify.LabelReview {
		t.Fatalf("Label = %s, want review", dec.Label)
	}
	if !strings.HasPrefix(dec.Evidence, "mesh_refine: top=[") {
		t.Fatalf("Evidence = %q", dec.Evidence)
	}
	if !strings.Contains(dec.Evidence, "delta=") {
		t.Fatalf("Evidence missing delta: %q", dec.Evidence)
	}
	if dec.TermsUsed != 3 {
		t.Fatalf("TermsUsed = %d, want 3", dec.TermsUsed)
	}
}

func TestClassifyLowTermsFallsBack(t *testing.T) {
	rec := classify.Record{
		ID: "pmid:77",
		PublicationTypes: map[string]string{
			"pubmed": "Review",
		},
		MeshTerms: []classify.MeshTerm{{Term: "humans", Experimental: 0.4}},
	}

	t.Run("default fallback", func(t *testing.T) {
		c := newTestClassifier(t, nil)
		dec, err := c.Classify(rec)
		if err != nil {
			t.Fatalf("Classify returned error: %v", err)
		}
		if dec.Label != classify.LabelNonReview {
			t.Fatalf("Label = %s, want non_review", dec.Label)
		}
		if dec.Note != classify.NoteLowTerms {
			t.Fatalf("Note = %q, want low_terms", dec.Note)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		c := newTestClassifier(t, func(s *classify.Settings) { s.UnknownMode = true })
		dec, err := c.Classify(rec)
		if err != nil {
			t.Fatalf("Classify returned error: %v", err)
		}
		if dec.Label != classify.LabelUnknown {
			t.Fatalf("Label = %s, want unknown", dec.Label)
		}
		if dec.Note != classify.NoteLowTerms {
			t.Fatalf("Note = %q, want low_terms", dec.Note)
		}
	})
}

func TestClassifyNoSignalIsUnknown(t *testing.T) {
	c := newTestClassifier(t, nil)
	dec, err := c.Classify(classify.Record{
		ID: "pmid:empty",
		PublicationTypes: map[string]string{
			"pubmed": "Unmapped Category",
		},
	})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if dec.Label != classify.LabelUnknown {
		t.Fatalf("Label = %s, want unknown", dec.Label)
	}
	if dec.Rule != classify.RuleNoSignal {
		t.Fatalf("Rule = %q, want no_signal", dec.Rule)
	}
	if dec.Note != classify.NoteNoSignal {
		t.Fatalf("Note = %q, want no_signal", dec.Note)
	}
}

func TestClassifyRejectsRecordWithoutID(t *testing.T) {
	c := newTestClassifier(t, nil)
	_, err := c.Classify(classify.Record{ID: "   "})
	if !errors.Is(err, classify.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestClassifyEpsilonOnlyForLoneEpsilonSourceVote(t *testing.T) {
	// One review vote from pubmed, refinement balanced at 0.5 each.
	rec := classify.Record{
		ID: "pmid:eps",
		PublicationTypes: map[string]string{
			"pubmed":   "Review",
			"openalex": "article",
			"crossref": "journal-article",
		},
		MeshTerms: []classify.MeshTerm{
			{Term: "humans", Experimental: 0.5},
			{Term: "adult", Experimental: 0.5},
			{Term: "female", Experimental: 0.5},
		},
	}

	c := newTestClassifier(t, func(s *classify.Settings) {
		s.Delta = 0.2
		s.Epsilon = 0.3
	})
	dec, err := c.Classify(rec)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if dec.Label != classify.LabelReview {
		t.Fatalf("Label = %s, want review from epsilon nudge", dec.Label)
	}

	// Same record but the lone review vote comes from a non-epsilon source.
	other := rec
	other.PublicationTypes = map[string]string{
		"pubmed":   "Journal Article",
		"openalex": "review",
		"crossref": "journal-article",
	}
	c2 := newTestClassifier(t, func(s *classify.Settings) {
		s.Delta = 0.2
		s.Epsilon = 0.3
	})
	dec2, err := c2.Classify(other)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if dec2.Label == classify.LabelReview {
		t.Fatalf("nudge must not apply to non-epsilon sources, got %s", dec2.Label)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newTestClassifier(t, nil)
	rec := classify.Record{
		ID: "pmid:repeat",
		PublicationTypes: map[string]string{
			"pubmed":   "Review",
			"openalex": "article",
		},
		MeshTerms: []classify.MeshTerm{
			{Term: "humans", Experimental: 0.4},
			{Term: "mice", Experimental: 0.9},
			{Term: "meta analysis", Experimental: 0.1},
		},
	}
	first, err := c.Classify(rec)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	second, err := c.Classify(rec)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("decisions differ:\n%+v\n%+v", first, second)
	}
}

func TestClassifyVotesFollowConfiguredSourceOrder(t *testing.T) {
	c := newTestClassifier(t, nil)
	dec, err := c.Classify(classify.Record{ID: "pmid:order"})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	want := []string{"pubmed", "openalex", "crossref"}
	if len(dec.Votes) != len(want) {
		t.Fatalf("Votes = %v", dec.Votes)
	}
	for i, name := range want {
		if dec.Votes[i].Source != name {
			t.Fatalf("Votes[%d].Source = %q, want %q", i, dec.Votes[i].Source, name)
		}
		if dec.Votes[i].Vote != classify.VoteAbstain {
			t.Fatalf("Votes[%d].Vote = %s, want abstain", i, dec.Votes[i].Vote)
		}
	}
}

func TestNewValidatesSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*classify.Settings)
	}{
		{"bad mode", func(s *classify.Settings) { s.Mode = "hybrid" }},
		{"no sources", func(s *classify.Settings) { s.Sources = nil }},
		{"duplicate source", func(s *classify.Settings) { s.Sources = append(s.Sources, s.Sources[0]) }},
		{"negative weight", func(s *classify.Settings) { s.Sources[0].Weight = -1 }},
		{"zero quorum", func(s *classify.Settings) { s.MinReviewVotes = 0 }},
		{"negative delta", func(s *classify.Settings) { s.Delta = -0.1 }},
		{"negative epsilon", func(s *classify.Settings) { s.Epsilon = -0.1 }},
		{"bad fallback", func(s *classify.Settings) { s.Fallback = classify.LabelReview }},
		{"conflicting synonyms", func(s *classify.Settings) {
			s.Sources[0].Synonyms.NonReview = append(s.Sources[0].Synonyms.NonReview, "Review")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := testSettings(classify.ModeMajority)
			tc.mutate(&settings)
			if _, err := classify.New(settings, nil); !errors.Is(err, classify.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}
