package nlu

import (
	"strings"
	"time"

	"github.com/w-h-a/bookflow/session"
)

type Intent string

const (
	IntentWeather    Intent = "ask_weather"
	IntentPromotions Intent = "ask_promotions"
	IntentHotels     Intent = "ask_hotels"
	IntentDistance   Intent = "ask_distance"
	IntentPlaceInfo  Intent = "ask_place_info"
	IntentDishes     Intent = "ask_dishes"
	IntentPlaces     Intent = "ask_places"
	IntentChat       Intent = "chat"
)

// Informational intents are answered from documents.
func (i Intent) Informational() bool {
	switch i {
	case IntentPlaceInfo, IntentDishes, IntentPlaces, IntentWeather:
		return true
	}
	return false
}

type Entities struct {
	City            string      `json:"city,omitempty"`
	CityInherited   bool        `json:"city_inherited,omitempty"`
	EntityName      string      `json:"entity_name,omitempty"`
	EntityType      string      `json:"entity_type,omitempty"`
	EntityInherited bool        `json:"entity_inherited,omitempty"`
	Station         string      `json:"station,omitempty"`
	Amenities       []string    `json:"amenities"`
	TimeWindow      *TimeWindow `json:"time_window,omitempty"`
	TopN            int         `json:"top_n"`
	Keyword         string      `json:"keyword,omitempty"`
	Region          *Region     `json:"region,omitempty"`
	Filters         Filters     `json:"filters"`
}

type IntentResult struct {
	Intent     Intent   `json:"intent"`
	Entities   Entities `json:"entities"`
	Confidence float64  `json:"confidence"`
	Anaphora   bool     `json:"anaphora,omitempty"`
	Fuzzy      bool     `json:"fuzzy,omitempty"`
	Normalized string   `json:"normalized"`
}

// signals are the facts a rule may look at.
type signals struct {
	tokens        int
	city          bool
	entity        bool
	contextEntity bool
	anaphora      bool
	weather       bool
	promotion     bool
	hotel         bool
	distance      bool
	detail        bool
	food          bool
	place         bool
	chat          bool
}

type rule struct {
	intent     Intent
	confidence float64
	when       func(s signals) bool
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{intent: IntentWeather, confidence: 0.95, when: func(s signals) bool { return s.weather }},
	{intent: IntentPromotions, confidence: 0.9, when: func(s signals) bool { return s.promotion }},
	{intent: IntentHotels, confidence: 0.9, when: func(s signals) bool { return s.hotel }},
	{intent: IntentDistance, confidence: 0.85, when: func(s signals) bool { return s.distance }},
	{intent: IntentPlaceInfo, confidence: 0.85, when: func(s signals) bool { return s.entity }},
	{intent: IntentPlaceInfo, confidence: 0.7, when: func(s signals) bool {
		return s.detail && s.contextEntity && !s.city && !s.food && !s.place
	}},
	{intent: IntentDishes, confidence: 0.8, when: func(s signals) bool { return s.food && s.city }},
	{intent: IntentDishes, confidence: 0.6, when: func(s signals) bool { return s.food }},
	{intent: IntentPlaces, confidence: 0.8, when: func(s signals) bool { return s.place && s.city }},
	{intent: IntentPlaces, confidence: 0.6, when: func(s signals) bool { return s.place }},
	{intent: IntentPlaceInfo, confidence: 0.5, when: func(s signals) bool {
		return s.detail && !s.city && (s.anaphora || s.tokens <= 4)
	}},
	{intent: IntentPlaceInfo, confidence: 0.6, when: func(s signals) bool { return s.anaphora && s.contextEntity }},
	{intent: IntentChat, confidence: 0.9, when: func(s signals) bool { return s.chat }},
	{intent: IntentPlaces, confidence: 0.5, when: func(s signals) bool { return s.city }},
}

const DefaultMinConfidence = 0.4

type Classifier struct {
	gazetteer     *Gazetteer
	clock         func() time.Time
	minConfidence float64
}

// Classify is a pure function of message and the session context.
func (c *Classifier) Classify(message string, sc session.Context) IntentResult {
	normalized := Normalize(message)
	tokens := Tokens(normalized)
	used := make([]bool, len(tokens))

	result := IntentResult{
		Intent:     IntentChat,
		Confidence: 0.3,
		Normalized: normalized,
	}

	result.Entities.Amenities = extractAmenities(tokens, used)

	var city, entity *Match
	for _, m := range c.gazetteer.Find(tokens, used) {
		if m.Fuzzy() {
			result.Fuzzy = true
		}
		switch m.Entry.Kind {
		case KindProvince:
			if city == nil {
				city = &m
			}
		default:
			if entity == nil {
				entity = &m
			}
		}
	}

	restTokens := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if !used[i] {
			restTokens = append(restTokens, tok)
		}
	}
	rest := strings.Join(restTokens, " ")

	s := signals{
		tokens:        len(tokens),
		city:          city != nil,
		entity:        entity != nil,
		contextEntity: len(sc.LastEntityName) > 0,
		anaphora:      hasPhrase(rest, anaphoraKeywords),
		weather:       hasPhrase(rest, weatherKeywords),
		promotion:     hasPhrase(rest, promotionKeywords),
		hotel:         hasPhrase(rest, hotelKeywords),
		distance:      hasPhrase(rest, distanceKeywords),
		detail:        hasPhrase(rest, detailKeywords),
		food:          hasPhrase(rest, foodKeywords),
		place:         hasPhrase(rest, placeKeywords),
		chat:          hasPhrase(rest, chatKeywords),
	}

	for _, r := range rules {
		if r.when(s) {
			result.Intent = r.intent
			result.Confidence = r.confidence
			break
		}
	}

	if result.Confidence < c.minConfidence {
		result.Intent = IntentChat
	}

	result.Anaphora = s.anaphora

	ents := &result.Entities

	if entity != nil {
		ents.EntityName = entity.Entry.Name
		ents.EntityType = string(entity.Entry.Kind)
		ents.Station = entity.Entry.Station
	}

	switch {
	case city != nil:
		ents.City = city.Entry.Province
		if len(ents.Station) == 0 {
			ents.Station = city.Entry.Station
		}
	case entity != nil:
		ents.City = entity.Entry.Province
	case len(sc.City) > 0 && c.inheritsCity(result.Intent, s.anaphora):
		ents.City = sc.City
		ents.CityInherited = true
	}

	if entity == nil && len(sc.LastEntityName) > 0 && c.inheritsEntity(result.Intent, s) {
		ents.EntityName = sc.LastEntityName
		ents.EntityType = sc.LastEntityType
		ents.EntityInherited = true
		if e, ok := c.gazetteer.Lookup(sc.LastEntityName); ok {
			ents.Station = e.Station
		}
	}

	if len(ents.Station) == 0 && len(ents.City) > 0 {
		if e, ok := c.gazetteer.Province(ents.City); ok {
			ents.Station = e.Station
		}
	}

	ents.TimeWindow = extractTimeWindow(rest, c.clock())
	ents.TopN = extractTopN(normalized)
	ents.Keyword = extractPromoCode(message)
	ents.Region = detectRegion(normalized)
	ents.Filters = extractFilters(rest)

	return result
}

func (c *Classifier) inheritsCity(intent Intent, anaphora bool) bool {
	switch intent {
	case IntentHotels, IntentWeather, IntentDishes, IntentPlaces, IntentPlaceInfo, IntentDistance:
		return true
	case IntentPromotions:
		return anaphora
	}
	return false
}

func (c *Classifier) inheritsEntity(intent Intent, s signals) bool {
	switch intent {
	case IntentPlaceInfo, IntentDistance:
		return !s.city
	case IntentWeather:
		return s.anaphora && !s.city
	}
	return false
}

// extractAmenities claims amenity phrases so that words such as "cho do xe"
// are not read as anaphora or place names.
func extractAmenities(tokens []string, used []bool) []string {
	amenities := []string{}

	for _, term := range amenityVocabulary {
		found := false
		for _, phrase := range term.phrases {
			pt := Tokens(phrase)
			for i := 0; i+len(pt) <= len(tokens); i++ {
				if free(used, i, i+len(pt)) && equalTokens(tokens[i:i+len(pt)], pt) {
					claim(used, i, i+len(pt))
					found = true
				}
			}
		}
		if found {
			amenities = append(amenities, term.label)
		}
	}

	return amenities
}

func NewClassifier(opts ...Option) *Classifier {
	options := NewOptions(opts...)

	return &Classifier{
		gazetteer:     options.Gazetteer,
		clock:         options.Clock,
		minConfidence: options.MinConfidence,
	}
}
