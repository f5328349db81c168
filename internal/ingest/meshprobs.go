package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"revclass/internal/classify"
)

// LoadMeshProbabilities reads a "term,probability" CSV into a map keyed by
// canonicalized term. An optional header row is skipped when its second
// field does not parse as a number. Probabilities outside [0, 1] are a
// configuration error.
func LoadMeshProbabilities(path string) (map[string]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh probabilities: %w", err)
	}
	defer file.Close()

	return ReadMeshProbabilities(file)
}

// ReadMeshProbabilities parses the probability table from r.
func ReadMeshProbabilities(r io.Reader) (map[string]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	probs := make(map[string]float64)
	line := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read mesh probabilities: %w", err)
		}
		line++

		p, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("mesh probabilities line %d: %q is not a number", line, row[1])
		}
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("mesh probabilities line %d: probability %v out of [0, 1]", line, p)
		}
		term := classify.CanonicalizeToken(row[0])
		if term == "" {
			return nil, fmt.Errorf("mesh probabilities line %d: empty term", line)
		}
		probs[term] = p
	}
	if len(probs) == 0 {
		return nil, errors.New("mesh probabilities: no entries")
	}
	return probs, nil
}
