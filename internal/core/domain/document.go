package domain

// Recognised metadata keys. Metadata is an open mapping; these are the keys
// the core reads back out.
const (
	// MetaType is the document type (e.g. "contract", "amendment", "report").
	MetaType = "type"

	// MetaTitle is the human-readable title.
	MetaTitle = "title"

	// MetaDate is the document date in zero-padded YYYY-MM-DD form.
	MetaDate = "date"

	// MetaCategory is a caller-defined grouping key.
	MetaCategory = "category"

	// MetaReferenceID names another document this one amends or extends.
	MetaReferenceID = "reference_id"

	// MetaSourceFile is the original file path, when the document came
	// from a file.
	MetaSourceFile = "source_file"
)

// Document represents a stored document with its content and metadata.
type Document struct {
	// ID is the unique identifier within the collection. Re-storing with
	// the same ID updates in place rather than inserting a duplicate.
	ID string `json:"id"`

	// Content is the full plain-text content. Binary sources must be
	// converted to text before a Document is constructed.
	Content string `json:"content"`

	// Metadata contains arbitrary key-value pairs. Collection-valued
	// entries are flattened to strings before persistence because the
	// vector collection accepts only scalar payload values.
	Metadata map[string]any `json:"metadata"`
}

// Type returns the document type from metadata, or "unknown" when unset.
func (d *Document) Type() string {
	if t, ok := d.Metadata[MetaType].(string); ok && t != "" {
		return t
	}
	return "unknown"
}

// ReferenceID returns the explicit reference from metadata, if any.
func (d *Document) ReferenceID() string {
	ref, _ := d.Metadata[MetaReferenceID].(string)
	return ref
}

// RelationshipView is the relationship graph for a single document.
// It is computed per request and never persisted.
type RelationshipView struct {
	// Similar holds semantically similar documents, similarity-descending,
	// never including the queried document itself.
	Similar []Document `json:"similar"`

	// References holds the zero-or-one document this one explicitly
	// points to via the reference_id metadata key.
	References []Document `json:"references"`

	// ReferencedBy holds documents whose reference_id names this
	// document. Computed from the reverse-reference index, not stored.
	ReferencedBy []Document `json:"referenced_by"`
}
