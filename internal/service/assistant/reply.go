package assistant

import (
	"github.com/w-h-a/bookflow/nlu"
	"github.com/w-h-a/bookflow/query"
	"github.com/w-h-a/bookflow/storer"
	"github.com/w-h-a/bookflow/weather"
)

// Source names the path that produced a reply's summary.
type Source string

const (
	SourceSQL       Source = "sql"
	SourceVector    Source = "vector"
	SourceVectorLLM Source = "vector+llm"
	SourceWeather   Source = "weather"
	SourceFallback  Source = "fallback"
)

type Item struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Province    string `json:"province"`
	Description string `json:"description"`
}

type NextContext struct {
	City           string `json:"city"`
	LastEntityName string `json:"last_entity_name"`
}

// Reply is the only payload shape returned by the assistant.
type Reply struct {
	Summary     string            `json:"summary"`
	Places      []Item            `json:"places,omitempty"`
	Dishes      []Item            `json:"dishes,omitempty"`
	Hotels      []query.Hotel     `json:"hotels,omitempty"`
	Promotions  []query.Promotion `json:"promotions,omitempty"`
	Cities      []string          `json:"cities,omitempty"`
	Weather     *weather.Report   `json:"weather,omitempty"`
	Source      Source            `json:"source"`
	Intent      nlu.Intent        `json:"intent"`
	Function    string            `json:"function,omitempty"`
	NextContext *NextContext      `json:"next_context,omitempty"`
}

func itemsFrom(records []storer.Record) (places []Item, dishes []Item) {
	for _, rec := range records {
		item := Item{
			Id:          rec.Id,
			Name:        rec.Metadata.Name,
			Province:    rec.Metadata.Province,
			Description: rec.Content,
		}
		if rec.Metadata.Type == storer.TypeDish {
			dishes = append(dishes, item)
			continue
		}
		places = append(places, item)
	}
	return places, dishes
}
