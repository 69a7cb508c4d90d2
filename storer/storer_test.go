package storer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestViolatesLanguagePolicy(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "vietnamese", content: "Eo Gió là thắng cảnh nổi tiếng của Quy Nhơn.", want: false},
		{name: "ascii", content: "Fansipan 3143m", want: false},
		{name: "han ideograph", content: "Mì Quảng 是一道美食", want: true},
		{name: "extension a", content: "㐀", want: true},
		{name: "upper bound", content: "龿", want: true},
		{name: "above range", content: "鿀", want: false},
		{name: "hiragana", content: "すし", want: true},
		{name: "katakana", content: "ラーメン", want: true},
		{name: "hangul is outside", content: "김치", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ViolatesLanguagePolicy(tt.content))
		})
	}
}

func TestExcludeViolations(t *testing.T) {
	records := []Record{
		{Id: "1", Content: "Bún sứa Nha Trang"},
		{Id: "2", Content: "越南河粉"},
		{Id: "3", Content: "Cầu Rồng", Metadata: Metadata{Name: "ドラゴン"}},
	}

	kept, dropped := ExcludeViolations(records)

	assert.Len(t, kept, 1)
	assert.Equal(t, "1", kept[0].Id)
	assert.Equal(t, []string{"2", "3"}, dropped)
}

func TestFilterMatch(t *testing.T) {
	md := Metadata{Name: "Eo Gió", Province: "Bình Định", Type: TypePlace}

	assert.True(t, Filter{}.Match(md))
	assert.True(t, Filter{Province: "Bình Định"}.Match(md))
	assert.True(t, Filter{Province: "Bình Định", Type: "PLACE"}.Match(md))
	assert.False(t, Filter{Province: "Khánh Hòa"}.Match(md))
	assert.False(t, Filter{Type: TypeDish}.Match(md))
}

func TestFilterMatchFoldsProvince(t *testing.T) {
	decomposed := Metadata{Name: "Kỳ Co", Province: norm.NFD.String("Bình Định"), Type: TypePlace}

	assert.True(t, Filter{Province: "Bình Định"}.Match(decomposed))
	assert.True(t, Filter{Province: "binh dinh"}.Match(decomposed))
	assert.True(t, Filter{Province: "TP. Hồ Chí Minh"}.Match(Metadata{Province: "Hồ Chí Minh"}))
	assert.True(t, Filter{Province: "Thành phố Đà Nẵng"}.Match(Metadata{Province: "Đà Nẵng"}))
	assert.False(t, Filter{Province: "Bình Dương"}.Match(decomposed))
	assert.Equal(t, "ho chi minh", ProvinceKey("Tp Hồ Chí Minh"))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}

func TestDiversify(t *testing.T) {
	records := []Record{
		{Id: "a", Score: 0.9, Embedding: []float32{1, 0}},
		{Id: "b", Score: 0.89, Embedding: []float32{1, 0.01}},
		{Id: "c", Score: 0.7, Embedding: []float32{0, 1}},
	}

	got := Diversify(records, 2, 0.5)

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Id)
	assert.Equal(t, "c", got[1].Id)

	assert.Len(t, Diversify(records, 5, 0.5), 3)
}
