package report

import (
	"fmt"
	"strconv"
	"strings"

	"revclass/internal/classify"
)

// Summary aggregates statistics over one classification run.
type Summary struct {
	Total      int
	Rejected   int
	Counts     map[classify.Label]int
	EmptyPT    map[string]int
	ZeroSignal int

	sources []string
}

// NewSummary prepares a summary for the given source order.
func NewSummary(sources []string) *Summary {
	return &Summary{
		Counts:  make(map[classify.Label]int),
		EmptyPT: make(map[string]int),
		sources: append([]string(nil), sources...),
	}
}

// Add folds one classified record into the summary.
func (s *Summary) Add(rec classify.Record, dec classify.Decision) {
	s.Total++
	s.Counts[dec.Label]++
	for _, src := range s.sources {
		if strings.TrimSpace(rec.PublicationTypes[src]) == "" {
			s.EmptyPT[src]++
		}
	}
	if dec.Rule == classify.RuleNoSignal {
		s.ZeroSignal++
	}
}

// AddRejected counts a record the classifier refused (missing identifier).
func (s *Summary) AddRejected() {
	s.Rejected++
}

// Labels returns the canonical label display order.
func Labels() []classify.Label {
	return []classify.Label{classify.LabelReview, classify.LabelNonReview, classify.LabelUnknown}
}

// DistributionRows renders label/count/percent rows for tabular output.
func (s *Summary) DistributionRows() [][]string {
	rows := make([][]string, 0, len(s.Counts))
	for _, label := range Labels() {
		count := s.Counts[label]
		rows = append(rows, []string{string(label), strconv.Itoa(count), s.percent(count)})
	}
	return rows
}

// CoverageRows renders per-source empty publication-type field counts.
func (s *Summary) CoverageRows() [][]string {
	rows := make([][]string, 0, len(s.sources))
	for _, src := range s.sources {
		empty := s.EmptyPT[src]
		rows = append(rows, []string{src, strconv.Itoa(empty), s.percent(empty)})
	}
	return rows
}

func (s *Summary) percent(count int) string {
	if s.Total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(s.Total)*100)
}
