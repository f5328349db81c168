// Package classify implements the review/non-review decision engine for
// bibliographic records.
//
// A record flows one way through the engine: raw publication-type strings
// are normalized into canonical labels per source, each source casts a
// vote, the votes are aggregated under the configured policy (majority
// count or weighted score), and ambiguous records are refined using MeSH
// term probabilities before the final Decision is assembled with its full
// provenance trail.
//
// The engine is stateless across records: configuration is compiled once
// into a Classifier and treated as immutable, so records may be processed
// on independent workers without coordination.
package classify
