package report_test

import (
	"testing"

	"revclass/internal/classify"
	"revclass/internal/report"
)

func TestSummaryCounts(t *testing.T) {
	s := report.NewSummary([]string{"pubmed", "openalex"})

	s.Add(classify.Record{
		ID:               "a",
		PublicationTypes: map[string]string{"pubmed": "Review"},
	}, classify.Decision{Label: classify.LabelReview, Rule: classify.RuleMajority})

	s.Add(classify.Record{
		ID:               "b",
		PublicationTypes: map[string]string{"pubmed": "Review", "openalex": "article"},
	}, classify.Decision{Label: classify.LabelNonReview, Rule: classify.RuleMeshRefine})

	s.Add(classify.Record{
		ID: "c",
	}, classify.Decision{Label: classify.LabelUnknown, Rule: classify.RuleNoSignal})

	s.AddRejected()

	if s.Total != 3 || s.Rejected != 1 {
		t.Fatalf("Total/Rejected = %d/%d", s.Total, s.Rejected)
	}
	if s.Counts[classify.LabelReview] != 1 || s.Counts[classify.LabelNonReview] != 1 || s.Counts[classify.LabelUnknown] != 1 {
		t.Fatalf("Counts = %v", s.Counts)
	}
	if s.ZeroSignal != 1 {
		t.Fatalf("ZeroSignal = %d", s.ZeroSignal)
	}
	if s.EmptyPT["pubmed"] != 1 || s.EmptyPT["openalex"] != 2 {
		t.Fatalf("EmptyPT = %v", s.EmptyPT)
	}
}

func TestSummaryRows(t *testing.T) {
	s := report.NewSummary([]string{"pubmed"})
	s.Add(classify.Record{ID: "a", PublicationTypes: map[string]string{"pubmed": "Review"}},
		classify.Decision{Label: classify.LabelReview, Rule: classify.RuleMajority})
	s.Add(classify.Record{ID: "b"},
		classify.Decision{Label: classify.LabelReview, Rule: classify.RuleMajority})

	rows := s.DistributionRows()
	if len(rows) != 3 {
		t.Fatalf("DistributionRows = %v", rows)
	}
	if rows[0][0] != "review" || rows[0][1] != "2" || rows[0][2] != "100.0%" {
		t.Fatalf("review row = %v", rows[0])
	}
	if rows[2][0] != "unknown" || rows[2][1] != "0" || rows[2][2] != "0.0%" {
		t.Fatalf("unknown row = %v", rows[2])
	}

	coverage := s.CoverageRows()
	if len(coverage) != 1 {
		t.Fatalf("CoverageRows = %v", coverage)
	}
	if coverage[0][0] != "pubmed" || coverage[0][1] != "1" || coverage[0][2] != "50.0%" {
		t.Fatalf("pubmed coverage = %v", coverage[0])
	}
}

func TestSummaryRowsEmpty(t *testing.T) {
	s := report.NewSummary(nil)
	for _, row := range s.DistributionRows() {
		if row[1] != "0" || row[2] != "0.0%" {
			t.Fatalf("empty summary row = %v", row)
		}
	}
}
