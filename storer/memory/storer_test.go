package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/storer"
)

func seed(t *testing.T, s storer.Storer) {
	t.Helper()

	ctx := context.Background()

	docs := []storer.Record{
		{Id: "1", Content: "Eo Gió", Metadata: storer.Metadata{Name: "Eo Gió", Province: "Bình Định", Type: storer.TypePlace}, Embedding: []float32{1, 0, 0}},
		{Id: "2", Content: "Kỳ Co", Metadata: storer.Metadata{Name: "Kỳ Co", Province: "Bình Định", Type: storer.TypePlace}, Embedding: []float32{0.9, 0.1, 0}},
		{Id: "3", Content: "Bún sứa", Metadata: storer.Metadata{Name: "Bún sứa", Province: "Khánh Hòa", Type: storer.TypeDish}, Embedding: []float32{0, 1, 0}},
	}

	for _, d := range docs {
		require.NoError(t, s.Upsert(ctx, d))
	}
}

func TestSearch_FiltersAndOrders(t *testing.T) {
	s := NewStorer()
	seed(t, s)

	got, err := s.Search(context.Background(), []float32{1, 0, 0}, storer.Filter{Province: "Bình Định"}, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Id)
	assert.Equal(t, "2", got[1].Id)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)

	got, err = s.Search(context.Background(), []float32{1, 0, 0}, storer.Filter{Type: storer.TypeDish}, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].Id)

	got, err = s.Search(context.Background(), []float32{1, 0, 0}, storer.Filter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsert_RequiresEmbedding(t *testing.T) {
	s := NewStorer()

	err := s.Upsert(context.Background(), storer.Record{Id: "x", Content: "no vector"})
	assert.ErrorIs(t, err, storer.ErrMissingEmbedding)
}

func TestReplace_UpdatesContentAndEmbeddingTogether(t *testing.T) {
	s := NewStorer()
	seed(t, s)

	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, "3", "Bún sứa Nha Trang", []float32{0, 0, 1}))

	rec, err := s.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Bún sứa Nha Trang", rec.Content)
	assert.Equal(t, []float32{0, 0, 1}, rec.Embedding)
	assert.Equal(t, "Khánh Hòa", rec.Metadata.Province)

	assert.ErrorIs(t, s.Replace(ctx, "3", "x", nil), storer.ErrMissingEmbedding)
	assert.ErrorIs(t, s.Replace(ctx, "missing", "x", []float32{1}), storer.ErrNotFound)

	rec, err = s.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Bún sứa Nha Trang", rec.Content)
}

func TestList_IsSortedAndFiltered(t *testing.T) {
	s := NewStorer()
	seed(t, s)

	got, err := s.List(context.Background(), storer.Filter{Province: "Bình Định"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Id)
	assert.Nil(t, got[0].Embedding)
}
