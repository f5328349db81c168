// Package recorder writes classification decisions to their two outputs:
// one CSV row per record for downstream tooling, and an optional JSONL
// trace line carrying the full provenance for debugging and audit.
//
// Both outputs are append-only and written in the order decisions arrive,
// so resuming on a new chunk never mutates or reorders prior output, and
// the label in a trace line always matches its decision row.
package recorder
