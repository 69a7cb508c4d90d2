package repair

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/generator"
	"github.com/w-h-a/bookflow/storer"
	"github.com/w-h-a/bookflow/storer/memory"
)

type fakeGenerator struct {
	outputs map[string]string
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, opts ...generator.GenerateOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for name, out := range f.outputs {
		if strings.Contains(prompt, `"`+name+`"`) {
			return out, nil
		}
	}
	return "Một nơi rất đáng ghé thăm.", nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.5, 0.5, 0}, nil
}

func seed(t *testing.T) storer.Storer {
	t.Helper()

	st := memory.NewStorer()
	docs := []storer.Record{
		{
			Id:        "ok",
			Content:   "Kỳ Co có làn nước trong xanh.",
			Metadata:  storer.Metadata{Name: "Kỳ Co", Province: "Bình Định", Type: storer.TypePlace},
			Embedding: []float32{1, 0, 0},
		},
		{
			Id:        "broken-place",
			Content:   "奇峰 海滩",
			Metadata:  storer.Metadata{Name: "Ghềnh Ráng", Province: "Bình Định", Type: storer.TypePlace},
			Embedding: []float32{0, 1, 0},
		},
		{
			Id:        "broken-dish",
			Content:   "ラーメン 美味しい",
			Metadata:  storer.Metadata{Name: "Bún chả cá", Province: "Bình Định", Type: storer.TypeDish},
			Embedding: []float32{0, 0, 1},
		},
	}
	for _, d := range docs {
		require.NoError(t, st.Upsert(context.Background(), d))
	}

	return st
}

func TestRun_RepairsViolations(t *testing.T) {
	st := seed(t)
	gen := &fakeGenerator{outputs: map[string]string{
		"Ghềnh Ráng": `"Ghềnh Ráng là thắng cảnh ven biển Quy Nhơn."`,
	}}

	report, err := New(st, gen, &fakeEmbedder{}, WithRate(0)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Violations)
	assert.Equal(t, 2, report.Repaired)

	all, err := st.List(context.Background(), storer.Filter{})
	require.NoError(t, err)
	for _, rec := range all {
		assert.False(t, storer.ViolatesLanguagePolicy(rec.Content), rec.Id)
	}

	rec, err := st.Get(context.Background(), "broken-place")
	require.NoError(t, err)
	assert.Equal(t, "Ghềnh Ráng. Ghềnh Ráng là thắng cảnh ven biển Quy Nhơn.", rec.Content)
	assert.Equal(t, []float32{0.5, 0.5, 0}, rec.Embedding)
}

func TestRun_TemplateWhenGenerationFails(t *testing.T) {
	st := seed(t)

	report, err := New(st, &fakeGenerator{err: errors.New("ollama down")}, &fakeEmbedder{}, WithRate(0)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Repaired)

	rec, err := st.Get(context.Background(), "broken-dish")
	require.NoError(t, err)
	assert.Equal(t, "Bún chả cá. Bún chả cá là đặc sản nổi tiếng tại Bình Định.", rec.Content)

	rec, err = st.Get(context.Background(), "broken-place")
	require.NoError(t, err)
	assert.Equal(t, "Ghềnh Ráng. Ghềnh Ráng là điểm đến nổi tiếng tại Bình Định.", rec.Content)
}

func TestRun_SkipsStillViolatingContent(t *testing.T) {
	st := seed(t)
	gen := &fakeGenerator{outputs: map[string]string{
		"Ghềnh Ráng": "Ghềnh Ráng 海滩 rất đẹp.",
	}}

	report, err := New(st, gen, &fakeEmbedder{}, WithRate(0)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Repaired)

	rec, err := st.Get(context.Background(), "broken-place")
	require.NoError(t, err)
	assert.Equal(t, "奇峰 海滩", rec.Content)
}

func TestRun_SkipsWhenEmbeddingFails(t *testing.T) {
	st := seed(t)

	report, err := New(st, &fakeGenerator{}, &fakeEmbedder{err: errors.New("model not loaded")}, WithRate(0)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Skipped)
	assert.Zero(t, report.Repaired)

	rec, err := st.Get(context.Background(), "broken-dish")
	require.NoError(t, err)
	assert.Equal(t, "ラーメン 美味しい", rec.Content)
}

func TestRun_DryRun(t *testing.T) {
	st := seed(t)

	report, err := New(st, &fakeGenerator{}, &fakeEmbedder{}, WithDryRun(true)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Violations)
	assert.Zero(t, report.Repaired)
	assert.ElementsMatch(t, []string{"broken-place", "broken-dish"}, report.Ids)
}
