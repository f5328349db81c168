package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"revclass/internal/classify"
	"revclass/internal/config"
)

// Reader streams classify.Record values out of a CSV input. Column
// positions are resolved once from the header row; PT columns missing from
// the input simply abstain, but at least one identifier column must exist.
type Reader struct {
	csv        *csv.Reader
	idColumns  []int
	ptColumns  map[string]int // source name -> column index
	meshColumn int
	meshProbs  map[string]float64
	delimiters string
}

// NewReader resolves the configured columns against the input header.
// meshProbs maps canonicalized MeSH terms to experimental probabilities
// and may be nil when no probability table is configured.
func NewReader(r io.Reader, cfg *config.Config, meshProbs map[string]float64) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = rune(cfg.Input.CSVDelimiter[0])
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var idColumns []int
	for _, name := range cfg.Input.IDColumns {
		if i, ok := index[name]; ok {
			idColumns = append(idColumns, i)
		}
	}
	if len(idColumns) == 0 {
		return nil, fmt.Errorf("none of the identifier columns %v present in input", cfg.Input.IDColumns)
	}

	ptColumns := make(map[string]int, len(cfg.Sources))
	for _, src := range cfg.Sources {
		if src.PTColumn == "" {
			continue
		}
		if i, ok := index[src.PTColumn]; ok {
			ptColumns[src.Name] = i
		}
	}

	meshColumn := -1
	if cfg.Mesh.TermsColumn != "" {
		if i, ok := index[cfg.Mesh.TermsColumn]; ok {
			meshColumn = i
		}
	}

	return &Reader{
		csv:        cr,
		idColumns:  idColumns,
		ptColumns:  ptColumns,
		meshColumn: meshColumn,
		meshProbs:  meshProbs,
		delimiters: cfg.Classifier.Delimiters,
	}, nil
}

// ReadChunk reads up to n records. It returns io.EOF (possibly alongside a
// final partial chunk) once the input is exhausted.
func (r *Reader) ReadChunk(n int) ([]classify.Record, error) {
	if n <= 0 {
		n = 1
	}
	records := make([]classify.Record, 0, n)
	for len(records) < n {
		row, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return records, io.EOF
		}
		if err != nil {
			return records, fmt.Errorf("read row: %w", err)
		}
		records = append(records, r.buildRecord(row))
	}
	return records, nil
}

func (r *Reader) buildRecord(row []string) classify.Record {
	rec := classify.Record{
		PublicationTypes: make(map[string]string, len(r.ptColumns)),
	}
	for _, i := range r.idColumns {
		if i < len(row) && strings.TrimSpace(row[i]) != "" {
			rec.ID = strings.TrimSpace(row[i])
			break
		}
	}
	for source, i := range r.ptColumns {
		if i < len(row) && strings.TrimSpace(row[i]) != "" {
			rec.PublicationTypes[source] = row[i]
		}
	}
	if r.meshColumn >= 0 && r.meshColumn < len(row) {
		rec.MeshTerms = r.joinMeshTerms(row[r.meshColumn])
	}
	return rec
}

// joinMeshTerms splits the raw MeSH field and keeps the terms present in
// the probability table, deduplicated in order of first appearance.
func (r *Reader) joinMeshTerms(raw string) []classify.MeshTerm {
	if strings.TrimSpace(raw) == "" || len(r.meshProbs) == 0 {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(c rune) bool {
		return strings.ContainsRune(r.delimiters, c)
	})
	seen := make(map[string]struct{}, len(fields))
	var terms []classify.MeshTerm
	for _, field := range fields {
		term := classify.CanonicalizeToken(field)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		if p, ok := r.meshProbs[term]; ok {
			terms = append(terms, classify.MeshTerm{Term: term, Experimental: p})
		}
	}
	return terms
}
