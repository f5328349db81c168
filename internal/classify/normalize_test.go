package classify_test

import (
	"errors"
	"reflect"
	"testing"

	"revclass/internal/classify"
)

func TestCanonicalizeToken(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and trim", "  Systematic Review  ", "systematic review"},
		{"en dash unified", "meta–analysis", "meta analysis"},
		{"em dash unified", "meta—analysis", "meta analysis"},
		{"ampersand expanded", "review & analysis", "review and analysis"},
		{"diacritics folded", "Révïew", "review"},
		{"bracketed span removed", "review (publication type)", "review"},
		{"unbalanced bracket kept as punctuation", "review (partial", "review partial"},
		{"punctuation collapsed", "meta-analysis, systematic!!", "meta analysis systematic"},
		{"digits preserved", "phase 3 trial", "phase 3 trial"},
		{"only punctuation", "***", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify.CanonicalizeToken(tc.in); got != tc.want {
				t.Fatalf("CanonicalizeToken(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func newTestNormalizer(t *testing.T) *classify.Normalizer {
	t.Helper()
	norm, err := classify.NewNormalizer(",;|/", map[string]classify.SynonymSet{
		"pubmed": {
			Review:    []string{"Review", "Systematic Review", "Meta-Analysis"},
			NonReview: []string{"Journal Article", "Clinical Trial"},
		},
	})
	if err != nil {
		t.Fatalf("NewNormalizer returned error: %v", err)
	}
	return norm
}

func TestNormalizeMatchesInFirstAppearanceOrder(t *testing.T) {
	norm := newTestNormalizer(t)
	got := norm.Normalize("pubmed", "Journal Article; Review; Unmapped Type; review")
	want := []classify.TokenMatch{
		{Token: "journal article", Label: classify.LabelNonReview},
		{Token: "review", Label: classify.LabelReview},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeEmptyFieldAndUnknownSource(t *testing.T) {
	norm := newTestNormalizer(t)
	if got := norm.Normalize("pubmed", "   "); got != nil {
		t.Fatalf("expected no matches for blank field, got %v", got)
	}
	if got := norm.Normalize("openalex", "Review"); got != nil {
		t.Fatalf("expected no matches for unconfigured source, got %v", got)
	}
}

func TestNormalizeDeduplicatesCanonicalForms(t *testing.T) {
	norm := newTestNormalizer(t)
	got := norm.Normalize("pubmed", "Meta-Analysis; meta–analysis; META ANALYSIS")
	if len(got) != 1 {
		t.Fatalf("expected one match after canonical dedupe, got %v", got)
	}
	if got[0].Token != "meta analysis" {
		t.Fatalf("unexpected canonical token %q", got[0].Token)
	}
}

func TestNewNormalizerRejectsConflictingSynonym(t *testing.T) {
	_, err := classify.NewNormalizer(",", map[string]classify.SynonymSet{
		"pubmed": {
			Review:    []string{"Review"},
			NonReview: []string{"review"},
		},
	})
	if !errors.Is(err, classify.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewNormalizerRejectsEmptyDelimiters(t *testing.T) {
	_, err := classify.NewNormalizer("  ", nil)
	if !errors.Is(err, classify.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
