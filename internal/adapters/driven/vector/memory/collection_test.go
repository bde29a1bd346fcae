package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docana-cli/internal/core/domain"
	"github.com/custodia-labs/docana-cli/internal/core/ports/driven"
)

func newReadyCollection(t *testing.T) *Collection {
	t.Helper()
	c := NewCollection()
	require.NoError(t, c.Init(context.Background()))
	return c
}

func record(id, content string, embedding []float32, payload map[string]string) driven.VectorRecord {
	if payload == nil {
		payload = map[string]string{}
	}
	return driven.VectorRecord{ID: id, Content: content, Embedding: embedding, Payload: payload}
}

func TestCollection_RequiresInit(t *testing.T) {
	c := NewCollection()
	ctx := context.Background()

	err := c.Upsert(ctx, []driven.VectorRecord{record("a", "x", nil, nil)})
	assert.ErrorIs(t, err, domain.ErrVectorUnavailable)

	_, err = c.Get(ctx, []string{"a"})
	assert.ErrorIs(t, err, domain.ErrVectorUnavailable)

	_, err = c.Query(ctx, []float32{1}, 5, nil)
	assert.ErrorIs(t, err, domain.ErrVectorUnavailable)

	_, _, err = c.Scroll(ctx, nil, 5, "")
	assert.ErrorIs(t, err, domain.ErrVectorUnavailable)
}

func TestCollection_UpsertAndGet(t *testing.T) {
	c := newReadyCollection(t)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []driven.VectorRecord{
		record("a", "alpha", []float32{1}, map[string]string{"type": "contract"}),
		record("b", "beta", []float32{1}, nil),
	}))

	records, err := c.Get(ctx, []string{"a", "missing", "b"})
	require.NoError(t, err)
	require.Len(t, records, 2, "missing IDs are absent, not errors")
	assert.Equal(t, "alpha", records[0].Content)
	assert.Equal(t, "contract", records[0].Payload["type"])

	// Replace in place.
	require.NoError(t, c.Upsert(ctx, []driven.VectorRecord{
		record("a", "alpha v2", []float32{1}, nil),
	}))
	records, err = c.Get(ctx, []string{"a"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alpha v2", records[0].Content)
}

func TestCollection_Query(t *testing.T) {
	c := newReadyCollection(t)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []driven.VectorRecord{
		record("near", "near", []float32{1, 0}, nil),
		record("mid", "mid", []float32{0.7, 0.7}, nil),
		record("far", "far", []float32{0, 1}, nil),
	}))

	t.Run("orders by cosine similarity descending", func(t *testing.T) {
		matches, err := c.Query(ctx, []float32{1, 0}, 10, nil)

		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "near", matches[0].ID)
		assert.Equal(t, "mid", matches[1].ID)
		assert.Equal(t, "far", matches[2].ID)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	})

	t.Run("truncates to the limit", func(t *testing.T) {
		matches, err := c.Query(ctx, []float32{1, 0}, 2, nil)

		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("applies equals and contains filters", func(t *testing.T) {
		require.NoError(t, c.Upsert(ctx, []driven.VectorRecord{
			record("tagged", "mentions Acme Corp", []float32{1, 0}, map[string]string{"type": "contract"}),
		}))

		matches, err := c.Query(ctx, []float32{1, 0}, 10, &driven.Filter{
			Equals:       map[string]string{"type": "contract"},
			ContainsText: "Acme",
		})

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "tagged", matches[0].ID)
	})
}

func TestCollection_Scroll(t *testing.T) {
	c := newReadyCollection(t)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []driven.VectorRecord{
		record("a", "one", nil, map[string]string{"date": "2024-01-01"}),
		record("b", "two", nil, map[string]string{"date": "2024-02-01"}),
		record("c", "three", nil, map[string]string{"date": "2024-03-01"}),
	}))

	t.Run("pages in ID order", func(t *testing.T) {
		first, next, err := c.Scroll(ctx, nil, 2, "")
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "a", first[0].ID)
		assert.Equal(t, "b", first[1].ID)
		require.Equal(t, "b", next)

		second, next, err := c.Scroll(ctx, nil, 2, next)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "c", second[0].ID)
		assert.Empty(t, next, "no further pages")
	})

	t.Run("range filter", func(t *testing.T) {
		records, next, err := c.Scroll(ctx, &driven.Filter{
			Ranges: []driven.RangeCondition{{Key: "date", GTE: "2024-02-01", LTE: "2024-12-31"}},
		}, 10, "")

		require.NoError(t, err)
		assert.Empty(t, next)
		require.Len(t, records, 2)
		assert.Equal(t, "b", records[0].ID)
		assert.Equal(t, "c", records[1].ID)
	})
}

func TestCollection_Drop(t *testing.T) {
	c := newReadyCollection(t)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []driven.VectorRecord{record("a", "x", nil, nil)}))
	require.NoError(t, c.Drop(ctx))

	_, err := c.Get(ctx, []string{"a"})
	assert.ErrorIs(t, err, domain.ErrVectorUnavailable, "dropped collection needs Init again")

	require.NoError(t, c.Init(ctx))
	records, err := c.Get(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, records)
}
