package recorder

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"revclass/internal/classify"
)

// Writer emits one decision row per record plus an optional trace line.
// Vote columns follow the configured source order, which is fixed for the
// lifetime of the writer.
type Writer struct {
	csv         *csv.Writer
	trace       *json.Encoder
	sources     []string
	wroteHeader bool
}

// New creates a Writer. trace may be nil to disable the JSONL output.
func New(out io.Writer, trace io.Writer, sources []string) *Writer {
	w := &Writer{
		csv:     csv.NewWriter(out),
		sources: append([]string(nil), sources...),
	}
	if trace != nil {
		w.trace = json.NewEncoder(trace)
	}
	return w
}

// MarkHeaderWritten suppresses the header row, for appending to an
// existing output file on resume.
func (w *Writer) MarkHeaderWritten() {
	w.wroteHeader = true
}

func (w *Writer) header() []string {
	columns := []string{"record_id", "label", "rule", "note"}
	for _, src := range w.sources {
		columns = append(columns, "vote."+src)
	}
	columns = append(columns,
		"review_votes", "score_review", "score_experimental", "margin",
		"terms_used", "top_terms", "evidence",
	)
	return columns
}

// Write appends one decision to both outputs.
func (w *Writer) Write(dec classify.Decision) error {
	if !w.wroteHeader {
		if err := w.csv.Write(w.header()); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		w.wroteHeader = true
	}

	votes := make(map[string]classify.Vote, len(dec.Votes))
	for _, v := range dec.Votes {
		votes[v.Source] = v.Vote
	}

	row := []string{dec.RecordID, string(dec.Label), dec.Rule, dec.Note}
	for _, src := range w.sources {
		vote, ok := votes[src]
		if !ok {
			vote = classify.VoteAbstain
		}
		row = append(row, string(vote))
	}
	row = append(row,
		strconv.Itoa(dec.ReviewVotes),
		formatScore(dec.ScoreReview),
		formatScore(dec.ScoreExperimental),
		formatScore(dec.Margin),
		strconv.Itoa(dec.TermsUsed),
		formatTerms(dec.TopTerms),
		dec.Evidence,
	)
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	if w.trace != nil {
		if err := w.trace.Encode(dec); err != nil {
			return fmt.Errorf("write trace: %w", err)
		}
	}
	return nil
}

// Flush drains buffered CSV output.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatTerms(terms []classify.TermProb) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("%s:%.4f", t.Term, t.P))
	}
	return strings.Join(parts, "; ")
}
