package classify

// MeshTerm is one MeSH term attached to a record together with the
// probability that it indicates experimental (non-review) work. The
// review probability is its complement.
type MeshTerm struct {
	Term         string  `json:"term"`
	Experimental float64 `json:"p"`
}

// Record is a single publication awaiting classification. PublicationTypes
// maps a source name to the raw, possibly multi-valued publication-type
// field from that source; missing sources simply have no entry. MeshTerms
// carries the record's MeSH terms already joined against the experimental
// probability table, and may be empty.
type Record struct {
	ID               string
	PublicationTypes map[string]string
	MeshTerms        []MeshTerm
}
