package classify

import "errors"

var (
	// ErrConfiguration marks invalid classifier configuration (ambiguous
	// synonym tables, negative weights or thresholds). Fatal at load time,
	// before any record is processed.
	ErrConfiguration = errors.New("configuration error")

	// ErrMalformedRecord marks a record that cannot be classified at all,
	// which for this engine means a missing identifier. Malformed PT or
	// MeSH fields on an otherwise valid record degrade to abstain or zero
	// score instead.
	ErrMalformedRecord = errors.New("malformed record")
)
