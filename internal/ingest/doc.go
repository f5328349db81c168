// Package ingest turns tabular input into classify.Record values.
//
// It owns the collaborator side of the pipeline: reading CSV rows with the
// configured delimiter and column mapping, joining MeSH term columns
// against the experimental probability table, and loading optional YAML
// synonym-table overrides. There is no encoding or delimiter
// auto-detection here; callers state the shape of their input up front.
package ingest
