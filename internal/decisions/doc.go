// Package decisions persists classification runs and their per-record
// decisions in SQLite.
//
// The Store manages database connections, schema initialization, run
// bookkeeping, and the label-distribution queries the reporting commands
// build on. Decisions are append-only per run and keyed by input sequence,
// which lets an interrupted run resume at the first unprocessed record
// without mutating or reordering what is already written.
//
// Schema changes bump the version in schema.go; the database is working
// state, not a long-term archive, so users clear it to adopt a new schema.
package decisions
