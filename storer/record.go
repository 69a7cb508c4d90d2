package storer

import (
	"strings"

	"github.com/w-h-a/bookflow/nlu"
)

const (
	TypePlace = "place"
	TypeDish  = "dish"
)

type Metadata struct {
	Name     string `json:"name"`
	Province string `json:"province"`
	Type     string `json:"type"`
}

type Record struct {
	Id        string
	Content   string
	Metadata  Metadata
	Embedding []float32
	Score     float32
}

type Filter struct {
	Province string
	Type     string
}

func (f Filter) Match(md Metadata) bool {
	if len(f.Province) > 0 && ProvinceKey(md.Province) != ProvinceKey(f.Province) {
		return false
	}
	if len(f.Type) > 0 && !strings.EqualFold(md.Type, f.Type) {
		return false
	}
	return true
}

func (m Metadata) ToMap() map[string]any {
	return map[string]any{
		"name":     m.Name,
		"province": m.Province,
		"type":     m.Type,
	}
}

var provincePrefixes = []string{"thanh pho ", "tp ", "tinh "}

// ProvinceKey folds a province name for comparison, so "TP. Hồ Chí Minh",
// "hồ chí minh" and decomposed spellings compare equal.
func ProvinceKey(province string) string {
	key := nlu.Normalize(province)
	for _, p := range provincePrefixes {
		if strings.HasPrefix(key, p) {
			return strings.TrimPrefix(key, p)
		}
	}
	return key
}
