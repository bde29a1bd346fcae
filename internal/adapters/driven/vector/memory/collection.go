// Package memory provides an in-memory VectorCollection.
// It serves as the test double for the core services and as a
// zero-dependency local mode; similarity is exact cosine over all records.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.VectorCollection = (*Collection)(nil)

// Collection is an in-memory implementation of driven.VectorCollection.
type Collection struct {
	mu      sync.RWMutex
	records map[string]driven.VectorRecord
	ready   bool
}

// NewCollection creates a new in-memory collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Init creates the collection if it does not exist.
func (c *Collection) Init(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.records == nil {
		c.records = make(map[string]driven.VectorRecord)
	}
	c.ready = true
	return nil
}

// Upsert inserts or replaces records by ID.
func (c *Collection) Upsert(_ context.Context, records []driven.VectorRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return domain.ErrVectorUnavailable
	}
	for i := range records {
		c.records[records[i].ID] = records[i]
	}
	return nil
}

// Get fetches records by ID. Missing IDs are absent from the result.
func (c *Collection) Get(_ context.Context, ids []string) ([]driven.VectorRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ready {
		return nil, domain.ErrVectorUnavailable
	}
	result := make([]driven.VectorRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := c.records[id]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

// Query returns up to limit records nearest to the embedding by cosine
// similarity, descending.
func (c *Collection) Query(_ context.Context, embedding []float32, limit int, filter *driven.Filter) ([]driven.VectorMatch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ready {
		return nil, domain.ErrVectorUnavailable
	}

	matches := make([]driven.VectorMatch, 0, len(c.records))
	for _, rec := range c.records {
		if !matchesFilter(rec, filter) {
			continue
		}
		matches = append(matches, driven.VectorMatch{
			VectorRecord: rec,
			Score:        cosine(embedding, rec.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Scroll returns records matching the filter in ID order, paging by the
// last-seen ID.
func (c *Collection) Scroll(_ context.Context, filter *driven.Filter, limit int, offset string) ([]driven.VectorRecord, string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ready {
		return nil, "", domain.ErrVectorUnavailable
	}

	ids := make([]string, 0, len(c.records))
	for id := range c.records {
		if offset != "" && id <= offset {
			continue
		}
		if matchesFilter(c.records[id], filter) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	next := ""
	if len(ids) > limit {
		ids = ids[:limit]
		next = ids[len(ids)-1]
	}

	result := make([]driven.VectorRecord, 0, len(ids))
	for _, id := range ids {
		result = append(result, c.records[id])
	}
	return result, next, nil
}

// Drop deletes the collection and all its records.
func (c *Collection) Drop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.ready = false
	return nil
}

// Close releases resources.
func (c *Collection) Close() error {
	return nil
}

func matchesFilter(rec driven.VectorRecord, filter *driven.Filter) bool {
	if filter == nil {
		return true
	}
	for key, want := range filter.Equals {
		if rec.Payload[key] != want {
			return false
		}
	}
	for _, cond := range filter.Ranges {
		val, ok := rec.Payload[cond.Key]
		if !ok {
			return false
		}
		if cond.GTE != "" && val < cond.GTE {
			return false
		}
		if cond.LTE != "" && val > cond.LTE {
			return false
		}
	}
	if filter.ContainsText != "" && !strings.Contains(rec.Content, filter.ContainsText) {
		return false
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
