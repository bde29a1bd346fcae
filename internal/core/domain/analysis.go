package domain

import "strings"

// DetailLevel is a caller-chosen summary verbosity tier. It affects prompt
// instructions, not a hard length contract.
type DetailLevel string

// Available detail levels.
const (
	// DetailBrief requests key points only, at most 25% of source length.
	DetailBrief DetailLevel = "brief"

	// DetailStandard requests main points and important details.
	DetailStandard DetailLevel = "standard"

	// DetailDetailed requests comprehensive coverage.
	DetailDetailed DetailLevel = "detailed"
)

// IsValid returns true if the detail level is recognised.
func (l DetailLevel) IsValid() bool {
	switch l {
	case DetailBrief, DetailStandard, DetailDetailed:
		return true
	default:
		return false
	}
}

// Normalise coerces unrecognised values to DetailStandard rather than
// rejecting them. Matching is case-insensitive.
func (l DetailLevel) Normalise() DetailLevel {
	lower := DetailLevel(strings.ToLower(strings.TrimSpace(string(l))))
	if lower.IsValid() {
		return lower
	}
	return DetailStandard
}

// String returns the string representation.
func (l DetailLevel) String() string {
	return string(l)
}

// Entity is a named entity found in a document.
type Entity struct {
	// Name is the entity text (e.g. "Acme Corp").
	Name string `json:"name"`

	// Type classifies the entity (e.g. "person", "organization").
	Type string `json:"type"`

	// Context is the surrounding text the entity was found in.
	Context string `json:"context,omitempty"`

	// Confidence is the extraction confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// MonetaryValue is a monetary amount found in a document.
type MonetaryValue struct {
	// Amount is the numeric value.
	Amount float64 `json:"amount"`

	// Currency is the currency code (e.g. "USD").
	Currency string `json:"currency"`

	// Context is the surrounding text the value was found in.
	Context string `json:"context,omitempty"`

	// Confidence is the extraction confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// DateReference is a date found in a document.
type DateReference struct {
	// Date is the date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Type classifies the date (e.g. "effective_date", "expiry_date").
	Type string `json:"type,omitempty"`

	// Context is the surrounding text the date was found in.
	Context string `json:"context,omitempty"`

	// Confidence is the extraction confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the structured output of analysing one document.
// Results are transient: computed per request, never persisted by the core.
type AnalysisResult struct {
	// DocumentType is the classified type (e.g. "contract", "invoice").
	DocumentType string `json:"document_type"`

	// KeyEntities lists named entities in extraction order.
	KeyEntities []Entity `json:"key_entities"`

	// MonetaryValues lists monetary amounts in extraction order.
	MonetaryValues []MonetaryValue `json:"monetary_values"`

	// Dates lists date references in extraction order.
	Dates []DateReference `json:"dates"`

	// KeyInfo holds document-type-dependent fields.
	KeyInfo map[string]any `json:"key_info"`

	// ReferenceID identifies a document this one amends, if any.
	ReferenceID string `json:"reference_id,omitempty"`

	// ChangesDetected describes amendment changes. Populated only when
	// ReferenceID is set and the document is classified as an amendment.
	ChangesDetected map[string]any `json:"changes_detected,omitempty"`

	// ConfidenceScore is the overall confidence in [0, 1].
	// Zero on extraction failure.
	ConfidenceScore float64 `json:"confidence_score"`

	// Metadata echoes the input document's metadata.
	Metadata map[string]any `json:"metadata,omitempty"`

	// SourceDocID echoes the input document's identifier, when known.
	SourceDocID string `json:"source_doc_id,omitempty"`
}

// DegradedAnalysis builds the structurally valid but information-empty
// result substituted when generation or parsing fails. Batch workflows rely
// on this so one bad document does not abort the run.
func DegradedAnalysis(docType string, metadata map[string]any) AnalysisResult {
	res := AnalysisResult{
		DocumentType:   docType,
		KeyEntities:    []Entity{},
		MonetaryValues: []MonetaryValue{},
		Dates:          []DateReference{},
		KeyInfo:        map[string]any{},
		Metadata:       metadata,
	}
	if id, ok := metadata["id"].(string); ok {
		res.SourceDocID = id
	}
	return res
}

// DocumentSummary is a generated summary of one document.
type DocumentSummary struct {
	// Content is the summary text.
	Content string `json:"content"`

	// KeyPoints lists the main points in order.
	KeyPoints []string `json:"key_points"`

	// DetailLevel is the verbosity tier the summary was generated at.
	DetailLevel DetailLevel `json:"detail_level"`

	// WordCount is the summary length in words. On generation failure it
	// is computed locally from the source content instead.
	WordCount int `json:"word_count"`

	// SourceDocID echoes the input document's identifier, when known.
	SourceDocID string `json:"source_doc_id,omitempty"`
}

// WordCount counts whitespace-separated words. Used for the degraded
// summary path where the generator never reported a count.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
