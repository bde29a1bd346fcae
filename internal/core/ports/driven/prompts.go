package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt
	// is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnalyze extracts structured information from a document.
	// The template expects %[1]s (content) and %[2]s (document type).
	PromptAnalyze = "analyze"

	// PromptSummarize generates a summary at a detail level.
	// The template expects %[1]s (detail level) and %[2]s (content).
	PromptSummarize = "summarize"

	// PromptExtract pulls specific information types out of a document.
	// The template expects %[1]s (comma-joined info types) and %[2]s (content).
	PromptExtract = "extract"
)

// DefaultPrompts contains the embedded default templates. Services use them
// when no PromptStore is configured or a load fails; the file prompt store
// seeds user-editable copies of the same text.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var DefaultPrompts = map[string]string{
	PromptAnalyze: `Analyze the following document and extract key information.

Document Content: %[1]s

Document Type: %[2]s

Provide a detailed analysis in the following JSON structure:
{
    "document_type": "%[2]s",
    "key_entities": [{"name": "entity name", "type": "person|organization|location", "context": "surrounding text", "confidence": 0.9}],
    "monetary_values": [{"amount": 50000, "currency": "USD", "context": "surrounding text", "confidence": 0.9}],
    "dates": [{"date": "YYYY-MM-DD", "type": "effective_date|expiry_date|other", "context": "surrounding text", "confidence": 0.9}],
    "key_info": {"fields relevant to this document type, include all extracted information"},
    "reference_id": "ID of a referenced document if any, otherwise omit",
    "changes_detected": {"if this is an amendment, include all changes"},
    "confidence_score": 0.95
}

Be precise and thorough in your analysis. Extract all relevant information.
Return ONLY the JSON object, no additional text.`,

	PromptSummarize: `Generate a %[1]s summary of the following document.

Document Content: %[2]s

Requirements:
1. For 'brief' summary: key points only, at most 25%% of the original length
2. For 'standard' summary: main points and important details
3. For 'detailed' summary: comprehensive coverage with all significant information

Provide the summary in the following JSON structure:
{
    "content": "The actual summary text",
    "key_points": ["list of key points", "important aspects", "critical details"],
    "detail_level": "%[1]s",
    "word_count": 123
}

Return ONLY the JSON object, no additional text.`,

	PromptExtract: `Extract the following types of information from the document:
%[1]s

Document Content: %[2]s

For each requested information type, provide structured data, for example:
{
    "parties": [{"name": "party name", "role": "party role"}],
    "dates": ["YYYY-MM-DD"],
    "locations": ["full address or location name"]
}

Be precise and thorough in extraction. Return ONLY the JSON object, no additional text.`,
}
