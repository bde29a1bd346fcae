package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docana-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.StoreService = (*DocumentService)(nil)

// scrollPageSize is the page size used when scanning the collection.
const scrollPageSize = 100

// DocumentService maps document identifiers to stored content and metadata
// inside the external vector collection. Embeddings are computed through
// the embedding provider and stored alongside the content; the collection
// owns indexing and ranking.
//
// Lifecycle: construct, Initialize, then use. Every operation returns
// domain.ErrNotInitialized before Initialize completes.
type DocumentService struct {
	collection driven.VectorCollection
	embedder   driven.EmbeddingService

	mu          sync.RWMutex
	initialized bool

	// backrefs maps a referenced document ID to the set of documents
	// naming it via reference_id. Maintained incrementally on Store and
	// seeded by one collection scan during Initialize, so referenced-by
	// lookups never scan the collection.
	backrefs map[string]map[string]struct{}

	// forward maps a document ID to its current reference_id, so a
	// re-store that changes the reference can unlink the old entry.
	forward map[string]string
}

// NewDocumentService creates a new document service.
func NewDocumentService(collection driven.VectorCollection, embedder driven.EmbeddingService) *DocumentService {
	return &DocumentService{
		collection: collection,
		embedder:   embedder,
		backrefs:   make(map[string]map[string]struct{}),
		forward:    make(map[string]string),
	}
}

// Initialize creates the collection if needed and seeds the
// reverse-reference index from any pre-existing documents.
// Failures are fatal to setup; there is no retry.
func (s *DocumentService) Initialize(ctx context.Context) error {
	if s.collection == nil {
		return domain.ErrVectorUnavailable
	}
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	if err := s.collection.Init(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.backrefs = make(map[string]map[string]struct{})
	s.forward = make(map[string]string)

	offset := ""
	for {
		records, next, err := s.collection.Scroll(ctx, nil, scrollPageSize, offset)
		if err != nil {
			return fmt.Errorf("%w: seeding reference index: %w", domain.ErrVectorUnavailable, err)
		}
		for i := range records {
			if ref := records[i].Payload[domain.MetaReferenceID]; ref != "" {
				s.linkLocked(records[i].ID, ref)
			}
		}
		if next == "" {
			break
		}
		offset = next
	}

	s.initialized = true
	return nil
}

// Store creates or updates a document and returns its identifier.
// Metadata values that are collections are flattened to strings because
// the collection accepts only scalar payload values. An absent identifier
// is derived deterministically from the content.
func (s *DocumentService) Store(ctx context.Context, doc domain.Document) (string, error) {
	if err := s.requireInit(); err != nil {
		return "", err
	}

	id := doc.ID
	if id == "" {
		id = deriveID(doc.Content)
	}

	payload := flattenMetadata(doc.Metadata)
	if len(payload) == 0 {
		payload = map[string]string{domain.MetaType: "document"}
	}
	if date, ok := payload[domain.MetaDate]; ok {
		payload[domain.MetaDate] = normaliseDate(date)
	}

	embedding, err := s.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return "", fmt.Errorf("embed content: %w", err)
	}

	record := driven.VectorRecord{
		ID:        id,
		Content:   doc.Content,
		Embedding: embedding,
		Payload:   payload,
	}
	if err := s.collection.Upsert(ctx, []driven.VectorRecord{record}); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}

	s.mu.Lock()
	s.relinkLocked(id, payload[domain.MetaReferenceID])
	s.mu.Unlock()

	logger.Debug("stored document %s (%d bytes)", id, len(doc.Content))
	return id, nil
}

// Get retrieves a document by ID. Absence is not an error on this read
// path: a missing document yields (nil, nil).
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}

	records, err := s.collection.Get(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	doc := recordToDocument(records[0])
	return &doc, nil
}

// FindSimilar returns up to limit documents semantically similar to the
// identified document. The query is seeded by the document's own content
// and requests limit+1 results, because a self-match is expected to rank
// first; the document itself is removed before returning. Ordering is
// similarity-descending as provided by the engine.
func (s *DocumentService) FindSimilar(ctx context.Context, id string, limit int) ([]domain.Document, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	ref, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	embedding, err := s.embedder.Embed(ctx, ref.Content)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	matches, err := s.collection.Query(ctx, embedding, limit+1, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}

	similar := make([]domain.Document, 0, limit)
	for i := range matches {
		if matches[i].ID == id {
			continue
		}
		if len(similar) == limit {
			break
		}
		similar = append(similar, recordToDocument(matches[i].VectorRecord))
	}
	return similar, nil
}

// FindByDateRange returns documents whose date metadata falls within
// [start, end]. Dates are zero-padded ISO strings, so the engine's
// lexicographic range comparison is chronological.
func (s *DocumentService) FindByDateRange(ctx context.Context, start, end string) ([]domain.Document, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}

	filter := &driven.Filter{
		Ranges: []driven.RangeCondition{{Key: domain.MetaDate, GTE: start, LTE: end}},
	}

	var docs []domain.Document
	offset := ""
	for {
		records, next, err := s.collection.Scroll(ctx, filter, scrollPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
		}
		for i := range records {
			docs = append(docs, recordToDocument(records[i]))
		}
		if next == "" {
			break
		}
		offset = next
	}
	return docs, nil
}

// FindByEntity returns documents mentioning the entity, combining a
// similarity query seeded by the entity string with a
// substring-containment filter. "Contains" semantics belong to the engine.
func (s *DocumentService) FindByEntity(ctx context.Context, entity string) ([]domain.Document, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}
	if entity == "" {
		return nil, fmt.Errorf("entity name: %w", domain.ErrInvalidInput)
	}

	embedding, err := s.embedder.Embed(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("embed entity: %w", err)
	}

	matches, err := s.collection.Query(ctx, embedding, 10, &driven.Filter{ContainsText: entity})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}

	docs := make([]domain.Document, 0, len(matches))
	for i := range matches {
		docs = append(docs, recordToDocument(matches[i].VectorRecord))
	}
	return docs, nil
}

// ReferencedBy returns documents whose reference_id names the given
// document, resolved through the in-memory reverse-reference index.
func (s *DocumentService) ReferencedBy(ctx context.Context, id string) ([]domain.Document, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	ids := make([]string, 0, len(s.backrefs[id]))
	for dep := range s.backrefs[id] {
		ids = append(ids, dep)
	}
	s.mu.RUnlock()

	if len(ids) == 0 {
		return []domain.Document{}, nil
	}
	sort.Strings(ids)

	records, err := s.collection.Get(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}

	docs := make([]domain.Document, 0, len(records))
	for i := range records {
		docs = append(docs, recordToDocument(records[i]))
	}
	return docs, nil
}

// Clear destroys and recreates the collection and resets the reference
// index. Calling it twice in succession leaves an empty, usable
// collection; the second call is a no-op beyond the recreate.
func (s *DocumentService) Clear(ctx context.Context) error {
	if err := s.requireInit(); err != nil {
		return err
	}

	if err := s.collection.Drop(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}
	if err := s.collection.Init(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}

	s.mu.Lock()
	s.backrefs = make(map[string]map[string]struct{})
	s.forward = make(map[string]string)
	s.mu.Unlock()

	logger.Info("collection cleared")
	return nil
}

func (s *DocumentService) requireInit() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return domain.ErrNotInitialized
	}
	return nil
}

// relinkLocked replaces the forward reference for a document, unlinking
// any previous reference_id first. Caller holds the write lock.
func (s *DocumentService) relinkLocked(id, ref string) {
	if old, ok := s.forward[id]; ok && old != ref {
		if deps := s.backrefs[old]; deps != nil {
			delete(deps, id)
			if len(deps) == 0 {
				delete(s.backrefs, old)
			}
		}
		delete(s.forward, id)
	}
	if ref != "" {
		s.linkLocked(id, ref)
	}
}

// linkLocked records id -> ref in both index directions. Caller holds the
// write lock.
func (s *DocumentService) linkLocked(id, ref string) {
	if s.backrefs[ref] == nil {
		s.backrefs[ref] = make(map[string]struct{})
	}
	s.backrefs[ref][id] = struct{}{}
	s.forward[id] = ref
}

// deriveID builds a deterministic identifier from content.
func deriveID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "doc-" + hex.EncodeToString(sum[:])[:12]
}

// recordToDocument rebuilds a Document from a stored record. Payload
// values come back as strings; stringified collections stay stringified.
func recordToDocument(rec driven.VectorRecord) domain.Document {
	metadata := make(map[string]any, len(rec.Payload))
	for k, v := range rec.Payload {
		metadata[k] = v
	}
	return domain.Document{
		ID:       rec.ID,
		Content:  rec.Content,
		Metadata: metadata,
	}
}

// flattenMetadata converts metadata to the scalar string payload the
// collection accepts. Collections are JSON-encoded; scalars keep their
// natural string form.
func flattenMetadata(metadata map[string]any) map[string]string {
	payload := make(map[string]string, len(metadata))
	for key, value := range metadata {
		if value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			payload[key] = v
		case bool:
			payload[key] = strconv.FormatBool(v)
		case int:
			payload[key] = strconv.Itoa(v)
		case int64:
			payload[key] = strconv.FormatInt(v, 10)
		case float64:
			payload[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case float32:
			payload[key] = strconv.FormatFloat(float64(v), 'f', -1, 32)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				payload[key] = fmt.Sprintf("%v", v)
				continue
			}
			payload[key] = string(encoded)
		}
	}
	return payload
}

// dateFormats are the layouts accepted for the date metadata key, tried
// in order. The first is the canonical stored form.
var dateFormats = []string{"2006-01-02", "2006-1-2", "2006/01/02", "02 Jan 2006"}

// normaliseDate rewrites well-formed dates to the zero-padded ISO form
// the range filter depends on. Malformed dates are stored as-is; the
// date-range contract is best effort for them.
func normaliseDate(date string) string {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02")
		}
	}
	logger.Warn("date %q is not a recognised date; range filters may miss it", date)
	return date
}
