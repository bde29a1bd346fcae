package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

// capturedRequest records one request body for assertions.
type capturedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

// newTestServer routes each "METHOD path" key to a canned response and
// captures request bodies.
func newTestServer(t *testing.T, responses map[string]func(w http.ResponseWriter)) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		captured = append(captured, capturedRequest{Method: r.Method, Path: r.URL.Path, Body: body})

		if respond, ok := responses[r.Method+" "+r.URL.Path]; ok {
			respond(w)
			return
		}
		_, _ = w.Write([]byte(`{"result": {}}`))
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func okJSON(payload string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(payload))
	}
}

func status(code int) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(code)
	}
}

func newTestCollection(t *testing.T, url string) *Collection {
	t.Helper()
	c, err := NewCollection(Config{URL: url, Collection: "test", Dimensions: 4})
	require.NoError(t, err)
	return c
}

func TestNewCollection(t *testing.T) {
	t.Run("requires dimensions", func(t *testing.T) {
		_, err := NewCollection(Config{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "dimensions")
	})

	t.Run("applies defaults", func(t *testing.T) {
		c, err := NewCollection(Config{Dimensions: 128})

		require.NoError(t, err)
		assert.Equal(t, DefaultURL, c.url)
		assert.Equal(t, DefaultCollection, c.collection)
	})
}

func TestCollection_Init(t *testing.T) {
	t.Run("creates a missing collection and the content index", func(t *testing.T) {
		server, captured := newTestServer(t, map[string]func(w http.ResponseWriter){
			"GET /collections/test": status(http.StatusNotFound),
		})
		c := newTestCollection(t, server.URL)

		err := c.Init(context.Background())

		require.NoError(t, err)
		require.Len(t, *captured, 3)
		create := (*captured)[1]
		assert.Equal(t, http.MethodPut, create.Method)
		assert.Equal(t, "/collections/test", create.Path)
		vectors := create.Body["vectors"].(map[string]any)
		assert.Equal(t, float64(4), vectors["size"])
		assert.Equal(t, "Cosine", vectors["distance"])

		index := (*captured)[2]
		assert.Equal(t, "/collections/test/index", index.Path)
		assert.Equal(t, "content", index.Body["field_name"])
		assert.Equal(t, "text", index.Body["field_schema"])
	})

	t.Run("skips creation when the collection exists", func(t *testing.T) {
		server, captured := newTestServer(t, nil)
		c := newTestCollection(t, server.URL)

		err := c.Init(context.Background())

		require.NoError(t, err)
		require.Len(t, *captured, 2, "existence check and index only")
	})
}

func TestCollection_Upsert(t *testing.T) {
	server, captured := newTestServer(t, nil)
	c := newTestCollection(t, server.URL)

	err := c.Upsert(context.Background(), []driven.VectorRecord{{
		ID:        "doc-abc",
		Content:   "the content",
		Embedding: []float32{1, 0, 0, 0},
		Payload:   map[string]string{"type": "contract", "date": "2024-01-15"},
	}})

	require.NoError(t, err)
	require.Len(t, *captured, 1)
	points := (*captured)[0].Body["points"].([]any)
	require.Len(t, points, 1)
	point := points[0].(map[string]any)

	assert.Equal(t, pointID("doc-abc"), point["id"], "point ID is the UUID derived from the doc ID")
	payload := point["payload"].(map[string]any)
	assert.Equal(t, "doc-abc", payload["doc_id"])
	assert.Equal(t, "the content", payload["content"])
	assert.Equal(t, "contract", payload["type"])
	assert.Equal(t, "2024-01-15", payload["date"])
	assert.Equal(t, float64(20240115), payload["date__num"], "ISO dates get a numeric companion")
	assert.NotContains(t, payload, "type__num")
}

func TestCollection_Get(t *testing.T) {
	server, captured := newTestServer(t, map[string]func(w http.ResponseWriter){
		"POST /collections/test/points": okJSON(`{"result": [
			{"id": "ignored", "payload": {
				"doc_id": "doc-abc",
				"content": "the content",
				"type": "contract",
				"date": "2024-01-15",
				"date__num": 20240115
			}}
		]}`),
	})
	c := newTestCollection(t, server.URL)

	records, err := c.Get(context.Background(), []string{"doc-abc"})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "doc-abc", records[0].ID)
	assert.Equal(t, "the content", records[0].Content)
	assert.Equal(t, "contract", records[0].Payload["type"])
	assert.Equal(t, "2024-01-15", records[0].Payload["date"])
	assert.NotContains(t, records[0].Payload, "date__num", "companion fields stay internal")

	ids := (*captured)[0].Body["ids"].([]any)
	assert.Equal(t, pointID("doc-abc"), ids[0])
}

func TestCollection_Query(t *testing.T) {
	server, captured := newTestServer(t, map[string]func(w http.ResponseWriter){
		"POST /collections/test/points/search": okJSON(`{"result": [
			{"id": "x", "score": 0.91, "payload": {"doc_id": "doc-1", "content": "c1"}},
			{"id": "y", "score": 0.42, "payload": {"doc_id": "doc-2", "content": "c2"}}
		]}`),
	})
	c := newTestCollection(t, server.URL)

	matches, err := c.Query(context.Background(), []float32{1, 0, 0, 0}, 5, &driven.Filter{
		ContainsText: "Acme",
		Ranges:       []driven.RangeCondition{{Key: "date", GTE: "2024-01-01", LTE: "2024-12-31"}},
	})

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "doc-1", matches[0].ID)
	assert.Equal(t, 0.91, matches[0].Score)

	body := (*captured)[0].Body
	assert.Equal(t, float64(5), body["limit"])
	must := body["filter"].(map[string]any)["must"].([]any)
	require.Len(t, must, 2)

	rangeCond := must[0].(map[string]any)
	assert.Equal(t, "date__num", rangeCond["key"], "ranges compare through the numeric companion")
	rng := rangeCond["range"].(map[string]any)
	assert.Equal(t, float64(20240101), rng["gte"])
	assert.Equal(t, float64(20241231), rng["lte"])

	textCond := must[1].(map[string]any)
	assert.Equal(t, "content", textCond["key"])
	assert.Equal(t, "Acme", textCond["match"].(map[string]any)["text"])
}

func TestCollection_Scroll(t *testing.T) {
	server, captured := newTestServer(t, map[string]func(w http.ResponseWriter){
		"POST /collections/test/points/scroll": okJSON(`{"result": {
			"points": [{"id": "x", "payload": {"doc_id": "doc-1", "content": "c1"}}],
			"next_page_offset": "point-uuid-2"
		}}`),
	})
	c := newTestCollection(t, server.URL)

	records, next, err := c.Scroll(context.Background(), nil, 1, "point-uuid-1")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "doc-1", records[0].ID)
	assert.Equal(t, "point-uuid-2", next)
	assert.Equal(t, "point-uuid-1", (*captured)[0].Body["offset"])
}

func TestCollection_Drop(t *testing.T) {
	t.Run("missing collection is not an error", func(t *testing.T) {
		server, _ := newTestServer(t, map[string]func(w http.ResponseWriter){
			"DELETE /collections/test": status(http.StatusNotFound),
		})
		c := newTestCollection(t, server.URL)

		assert.NoError(t, c.Drop(context.Background()))
	})

	t.Run("server failure", func(t *testing.T) {
		server, _ := newTestServer(t, map[string]func(w http.ResponseWriter){
			"DELETE /collections/test": status(http.StatusInternalServerError),
		})
		c := newTestCollection(t, server.URL)

		assert.ErrorIs(t, c.Drop(context.Background()), domain.ErrVectorUnavailable)
	})
}

func TestPointID_Deterministic(t *testing.T) {
	assert.Equal(t, pointID("doc-abc"), pointID("doc-abc"))
	assert.NotEqual(t, pointID("doc-abc"), pointID("doc-def"))
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, pointID("doc-abc"))
}
