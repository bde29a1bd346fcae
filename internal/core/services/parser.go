package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
)

// extractJSON locates the structured payload in generation output. It
// first attempts a direct parse, then falls back to the substring between
// the first opening brace and the last closing brace, recovering from
// generators that wrap JSON in explanatory prose. It does not handle
// unbalanced braces or multiple candidate objects.
func extractJSON(response string) ([]byte, error) {
	trimmed := strings.TrimSpace(response)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return []byte(trimmed), nil
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return nil, domain.ErrNoJSONPayload
	}

	candidate := response[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("%w: brace-delimited candidate is malformed", domain.ErrNoJSONPayload)
	}
	return []byte(candidate), nil
}

// entityWire tolerates both the requested object form and the bare-string
// form some generators emit.
type entityWire domain.Entity

func (e *entityWire) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*e = entityWire{Name: name, Confidence: 1.0}
		return nil
	}
	type plain domain.Entity
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = entityWire(p)
	return nil
}

// moneyWire tolerates both the requested object form and a bare number.
type moneyWire domain.MonetaryValue

func (m *moneyWire) UnmarshalJSON(data []byte) error {
	var amount float64
	if err := json.Unmarshal(data, &amount); err == nil {
		*m = moneyWire{Amount: amount, Confidence: 1.0}
		return nil
	}
	type plain domain.MonetaryValue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = moneyWire(p)
	return nil
}

// dateWire tolerates both the requested object form and a bare string.
type dateWire domain.DateReference

func (d *dateWire) UnmarshalJSON(data []byte) error {
	var date string
	if err := json.Unmarshal(data, &date); err == nil {
		*d = dateWire{Date: date, Confidence: 1.0}
		return nil
	}
	type plain domain.DateReference
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = dateWire(p)
	return nil
}

// analysisWire enumerates every recognised field of the analysis payload.
// Missing fields take the zero value; decodeAnalysis substitutes the
// documented defaults afterwards.
type analysisWire struct {
	DocumentType    string         `json:"document_type"`
	KeyEntities     []entityWire   `json:"key_entities"`
	MonetaryValues  []moneyWire    `json:"monetary_values"`
	Dates           []dateWire     `json:"dates"`
	KeyInfo         map[string]any `json:"key_info"`
	ReferenceID     string         `json:"reference_id"`
	ChangesDetected map[string]any `json:"changes_detected"`
	ConfidenceScore float64        `json:"confidence_score"`
	Metadata        map[string]any `json:"metadata"`
}

// decodeAnalysis turns a generation response into an AnalysisResult.
// docType and metadata come from the input document and fill in anything
// the generator omitted.
func decodeAnalysis(response, docType string, metadata map[string]any) (domain.AnalysisResult, error) {
	payload, err := extractJSON(response)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	var wire analysisWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %w", domain.ErrNoJSONPayload, err)
	}

	result := domain.AnalysisResult{
		DocumentType:    wire.DocumentType,
		KeyEntities:     make([]domain.Entity, len(wire.KeyEntities)),
		MonetaryValues:  make([]domain.MonetaryValue, len(wire.MonetaryValues)),
		Dates:           make([]domain.DateReference, len(wire.Dates)),
		KeyInfo:         wire.KeyInfo,
		ReferenceID:     wire.ReferenceID,
		ChangesDetected: wire.ChangesDetected,
		ConfidenceScore: clamp01(wire.ConfidenceScore),
		Metadata:        metadata,
	}
	for i := range wire.KeyEntities {
		result.KeyEntities[i] = domain.Entity(wire.KeyEntities[i])
		result.KeyEntities[i].Confidence = clamp01(result.KeyEntities[i].Confidence)
	}
	for i := range wire.MonetaryValues {
		result.MonetaryValues[i] = domain.MonetaryValue(wire.MonetaryValues[i])
		result.MonetaryValues[i].Confidence = clamp01(result.MonetaryValues[i].Confidence)
	}
	for i := range wire.Dates {
		result.Dates[i] = domain.DateReference(wire.Dates[i])
		result.Dates[i].Confidence = clamp01(result.Dates[i].Confidence)
	}

	if result.DocumentType == "" {
		result.DocumentType = docType
	}
	if result.KeyInfo == nil {
		result.KeyInfo = map[string]any{}
	}
	if id, ok := metadata["id"].(string); ok {
		result.SourceDocID = id
	}
	return result, nil
}

// summaryWire enumerates every recognised field of the summary payload.
type summaryWire struct {
	Content     string   `json:"content"`
	KeyPoints   []string `json:"key_points"`
	DetailLevel string   `json:"detail_level"`
	WordCount   int      `json:"word_count"`
}

// decodeSummary turns a generation response into a DocumentSummary.
func decodeSummary(response string, level domain.DetailLevel, metadata map[string]any) (domain.DocumentSummary, error) {
	payload, err := extractJSON(response)
	if err != nil {
		return domain.DocumentSummary{}, err
	}

	var wire summaryWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return domain.DocumentSummary{}, fmt.Errorf("%w: %w", domain.ErrNoJSONPayload, err)
	}

	summary := domain.DocumentSummary{
		Content:     wire.Content,
		KeyPoints:   wire.KeyPoints,
		DetailLevel: level,
		WordCount:   wire.WordCount,
	}
	if summary.KeyPoints == nil {
		summary.KeyPoints = []string{}
	}
	if summary.WordCount <= 0 {
		summary.WordCount = domain.WordCount(wire.Content)
	}
	if id, ok := metadata["id"].(string); ok {
		summary.SourceDocID = id
	}
	return summary, nil
}

// decodeExtraction turns a generation response into the info-type map.
// Key coverage is enforced by the caller, not here.
func decodeExtraction(response string) (map[string]any, error) {
	payload, err := extractJSON(response)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoJSONPayload, err)
	}
	return result, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
