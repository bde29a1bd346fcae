// Package qdrant provides a VectorCollection adapter over the Qdrant
// REST API. It is a minimal client: create-if-missing collection, upsert,
// retrieve, search, scroll and drop, with cosine distance.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.VectorCollection = (*Collection)(nil)

// Default configuration values.
const (
	DefaultURL        = "http://localhost:6333"
	DefaultCollection = "docana"
	DefaultTimeout    = 15 * time.Second
)

// Reserved payload keys. Qdrant point IDs must be UUIDs or unsigned
// integers, so the document identifier lives in the payload and the point
// ID is a UUID derived deterministically from it.
const (
	payloadDocID   = "doc_id"
	payloadContent = "content"
)

// ordinalSuffix marks the numeric companion written next to ISO-date
// payload values. Qdrant range filters compare numbers, not strings, so
// "2024-01-15" is shadowed by "date__num": 20240115.
const ordinalSuffix = "__num"

// pointNamespace seeds the UUIDv5 derivation of point IDs from document
// identifiers. Fixed so the mapping is stable across processes.
var pointNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Config holds configuration for the Qdrant collection.
type Config struct {
	// URL is the Qdrant endpoint (default: http://localhost:6333).
	URL string

	// APIKey authenticates hosted Qdrant. Optional for local instances.
	APIKey string

	// Collection is the collection name (default: docana).
	Collection string

	// Dimensions is the embedding vector size (required).
	Dimensions int

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Collection is a Qdrant-backed implementation of driven.VectorCollection.
type Collection struct {
	client     *http.Client
	url        string
	apiKey     string
	collection string
	dimensions int
}

// NewCollection creates a new Qdrant collection client.
func NewCollection(cfg Config) (*Collection, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: dimensions must be positive")
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Collection{
		client:     &http.Client{Timeout: cfg.Timeout},
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}, nil
}

// Init creates the collection if it does not exist and ensures a
// full-text index on the content field for substring filters.
func (c *Collection) Init(ctx context.Context) error {
	status, err := c.do(ctx, http.MethodGet, c.collectionURL(""), nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		body := map[string]any{
			"vectors": map[string]any{
				"size":     c.dimensions,
				"distance": "Cosine",
			},
		}
		if _, err := c.doOK(ctx, http.MethodPut, c.collectionURL(""), body, nil); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
	}

	// Full-text index enables match-text filters on content. Recreating
	// an existing index is accepted by Qdrant.
	index := map[string]any{
		"field_name":   payloadContent,
		"field_schema": "text",
	}
	if _, err := c.doOK(ctx, http.MethodPut, c.collectionURL("/index"), index, nil); err != nil {
		return fmt.Errorf("create content index: %w", err)
	}
	return nil
}

// Upsert inserts or replaces records by ID.
func (c *Collection) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	points := make([]map[string]any, len(records))
	for i := range records {
		payload := map[string]any{
			payloadDocID:   records[i].ID,
			payloadContent: records[i].Content,
		}
		for k, v := range records[i].Payload {
			payload[k] = v
			if isoDate.MatchString(v) {
				payload[k+ordinalSuffix] = dateOrdinal(v)
			}
		}
		points[i] = map[string]any{
			"id":      pointID(records[i].ID),
			"vector":  records[i].Embedding,
			"payload": payload,
		}
	}

	body := map[string]any{"points": points}
	if _, err := c.doOK(ctx, http.MethodPut, c.collectionURL("/points?wait=true"), body, nil); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Get fetches records by ID. Missing IDs are absent from the result.
func (c *Collection) Get(ctx context.Context, ids []string) ([]driven.VectorRecord, error) {
	pointIDs := make([]string, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}

	body := map[string]any{
		"ids":          pointIDs,
		"with_payload": true,
	}
	var resp struct {
		Result []pointResult `json:"result"`
	}
	if _, err := c.doOK(ctx, http.MethodPost, c.collectionURL("/points"), body, &resp); err != nil {
		return nil, fmt.Errorf("retrieve points: %w", err)
	}

	records := make([]driven.VectorRecord, 0, len(resp.Result))
	for i := range resp.Result {
		records = append(records, resp.Result[i].toRecord())
	}
	return records, nil
}

// Query returns up to limit records nearest to the embedding,
// similarity-descending as ranked by Qdrant.
func (c *Collection) Query(ctx context.Context, embedding []float32, limit int, filter *driven.Filter) ([]driven.VectorMatch, error) {
	body := map[string]any{
		"vector":       embedding,
		"limit":        limit,
		"with_payload": true,
	}
	if f := encodeFilter(filter); f != nil {
		body["filter"] = f
	}

	var resp struct {
		Result []pointResult `json:"result"`
	}
	if _, err := c.doOK(ctx, http.MethodPost, c.collectionURL("/points/search"), body, &resp); err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	matches := make([]driven.VectorMatch, 0, len(resp.Result))
	for i := range resp.Result {
		matches = append(matches, driven.VectorMatch{
			VectorRecord: resp.Result[i].toRecord(),
			Score:        resp.Result[i].Score,
		})
	}
	return matches, nil
}

// Scroll pages through records matching a payload filter. The opaque
// offset is Qdrant's next_page_offset point ID.
func (c *Collection) Scroll(ctx context.Context, filter *driven.Filter, limit int, offset string) ([]driven.VectorRecord, string, error) {
	body := map[string]any{
		"limit":        limit,
		"with_payload": true,
	}
	if f := encodeFilter(filter); f != nil {
		body["filter"] = f
	}
	if offset != "" {
		body["offset"] = offset
	}

	var resp struct {
		Result struct {
			Points         []pointResult `json:"points"`
			NextPageOffset any           `json:"next_page_offset"`
		} `json:"result"`
	}
	if _, err := c.doOK(ctx, http.MethodPost, c.collectionURL("/points/scroll"), body, &resp); err != nil {
		return nil, "", fmt.Errorf("scroll points: %w", err)
	}

	records := make([]driven.VectorRecord, 0, len(resp.Result.Points))
	for i := range resp.Result.Points {
		records = append(records, resp.Result.Points[i].toRecord())
	}

	next := ""
	if s, ok := resp.Result.NextPageOffset.(string); ok {
		next = s
	}
	return records, next, nil
}

// Drop deletes the collection. A missing collection is not an error, so
// clear-then-recreate stays idempotent.
func (c *Collection) Drop(ctx context.Context) error {
	status, err := c.do(ctx, http.MethodDelete, c.collectionURL(""), nil, nil)
	if err != nil {
		return err
	}
	if status >= 300 && status != http.StatusNotFound {
		return fmt.Errorf("%w: drop collection: status %d", domain.ErrVectorUnavailable, status)
	}
	return nil
}

// Close releases resources.
func (c *Collection) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// pointResult is the point shape shared by retrieve, search and scroll
// responses.
type pointResult struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

func (p *pointResult) toRecord() driven.VectorRecord {
	rec := driven.VectorRecord{
		Payload: make(map[string]string),
	}
	for k, v := range p.Payload {
		switch k {
		case payloadDocID:
			rec.ID, _ = v.(string)
		case payloadContent:
			rec.Content, _ = v.(string)
		default:
			if strings.HasSuffix(k, ordinalSuffix) {
				continue
			}
			if s, ok := v.(string); ok {
				rec.Payload[k] = s
			}
		}
	}
	return rec
}

// pointID derives the stable UUID point identifier for a document.
func pointID(docID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(docID)).String()
}

// dateOrdinal maps "2024-01-15" to 20240115 for numeric range filters.
func dateOrdinal(date string) int64 {
	n, _ := strconv.ParseInt(strings.ReplaceAll(date, "-", ""), 10, 64)
	return n
}

// encodeFilter translates the port filter into Qdrant's filter JSON.
// Range conditions compare through the numeric date companion fields.
func encodeFilter(filter *driven.Filter) map[string]any {
	if filter == nil {
		return nil
	}

	var must []map[string]any
	for key, value := range filter.Equals {
		must = append(must, map[string]any{
			"key":   key,
			"match": map[string]any{"value": value},
		})
	}
	for _, cond := range filter.Ranges {
		rng := map[string]any{}
		if cond.GTE != "" {
			rng["gte"] = dateOrdinal(cond.GTE)
		}
		if cond.LTE != "" {
			rng["lte"] = dateOrdinal(cond.LTE)
		}
		must = append(must, map[string]any{
			"key":   cond.Key + ordinalSuffix,
			"range": rng,
		})
	}
	if filter.ContainsText != "" {
		must = append(must, map[string]any{
			"key":   payloadContent,
			"match": map[string]any{"text": filter.ContainsText},
		})
	}

	if len(must) == 0 {
		return nil
	}
	return map[string]any{"must": must}
}

func (c *Collection) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", c.url, c.collection, suffix)
}

// do sends a request and decodes the response into out when provided.
// The HTTP status is returned so callers can treat 404 specially.
func (c *Collection) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrVectorUnavailable, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// doOK sends a request and fails on any non-2xx status.
func (c *Collection) doOK(ctx context.Context, method, url string, body, out any) (int, error) {
	status, err := c.do(ctx, method, url, body, out)
	if err != nil {
		return status, err
	}
	if status >= 300 {
		return status, fmt.Errorf("%w: %s %s: status %d", domain.ErrVectorUnavailable, method, url, status)
	}
	return status, nil
}
