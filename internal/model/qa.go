package model

// Candidate is an extracted, unverified fact proposed as a benchmark item.
// Candidates live only inside one generation attempt and are never persisted.
type Candidate struct {
	Subject string // identifier or keyword-bearing unit the fact belongs to
	Value   string // the literal value or keyword
	Context string // opaque reference back to the unit of text it came from
}

// VerificationResult records the outcome of a uniqueness check.
// It is immutable once returned and embedded verbatim into QARecord provenance.
type VerificationResult struct {
	IsUnique          bool   `json:"is_unique"`
	SearchQueryUsed   string `json:"search_query_used,omitempty"`
	SearchResultCount int    `json:"search_result_count"`
	Reason            string `json:"reason"`
}

// EvalMethodStringMatch is the only evaluation method currently supported.
const EvalMethodStringMatch = "string_match"

// QARecord is the persisted benchmark unit. Records are immutable after
// creation; benchmark files are written whole, never appended to.
type QARecord struct {
	ID                 string                 `json:"id"`
	Domain             string                 `json:"domain"`
	SourceURL          string                 `json:"source_url"`
	Question           string                 `json:"question"`
	Answer             string                 `json:"answer"`
	EvalMethod         string                 `json:"eval_method"`
	GenerationMetadata map[string]interface{} `json:"generation_metadata"`
}
