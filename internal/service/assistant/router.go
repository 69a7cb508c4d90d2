package assistant

import (
	"github.com/w-h-a/bookflow/nlu"
	"github.com/w-h-a/bookflow/query"
)

// Route binds an intent and slot combination to one catalog function.
// Slots counts what the route consumes; the route consuming most slots
// wins and ties go to the earlier route.
type Route struct {
	Function string
	Slots    int
	match    func(res nlu.IntentResult) bool
}

var routes = []Route{
	{
		Function: query.HotelsByCityWithAmenities,
		Slots:    3,
		match: func(res nlu.IntentResult) bool {
			return res.Intent == nlu.IntentHotels && len(res.Entities.City) > 0 && len(res.Entities.Amenities) > 0
		},
	},
	{
		Function: query.TopHotelsByCity,
		Slots:    2,
		match: func(res nlu.IntentResult) bool {
			return res.Intent == nlu.IntentHotels && len(res.Entities.City) > 0
		},
	},
	{
		Function: query.ListHotelCities,
		Slots:    1,
		match: func(res nlu.IntentResult) bool {
			return res.Intent == nlu.IntentHotels
		},
	},
	{
		Function: query.PromotionsByKeywordCityMonth,
		Slots:    2,
		match: func(res nlu.IntentResult) bool {
			return res.Intent == nlu.IntentPromotions && res.Entities.TimeWindow != nil
		},
	},
	{
		Function: query.PromotionsByCity,
		Slots:    2,
		match: func(res nlu.IntentResult) bool {
			return res.Intent == nlu.IntentPromotions && len(res.Entities.City) > 0
		},
	},
	{
		Function: query.PromotionsValidToday,
		Slots:    1,
		match: func(res nlu.IntentResult) bool {
			return res.Intent == nlu.IntentPromotions
		},
	},
}

// Dispatch selects the structured query for a classified message.
func Dispatch(res nlu.IntentResult) (Route, bool) {
	var best Route
	found := false

	for _, r := range routes {
		if !r.match(res) {
			continue
		}
		if !found || r.Slots > best.Slots {
			best = r
			found = true
		}
	}

	return best, found
}

// Params fills the catalog parameters a route needs from the slots.
func (r Route) Params(res nlu.IntentResult) query.Params {
	ents := res.Entities
	params := query.Params{
		query.ParamLimit: ents.TopN,
	}

	if len(ents.City) > 0 {
		params[query.ParamCity] = ents.City
	}

	if len(ents.Amenities) > 0 {
		params[query.ParamAmenities] = ents.Amenities
	}

	if len(ents.Keyword) > 0 {
		params[query.ParamKeyword] = ents.Keyword
	}

	if w := ents.TimeWindow; w != nil {
		params[query.ParamMonth] = w.Month
		params[query.ParamEndMonth] = w.EndMonth
		params[query.ParamYear] = w.Year
	}

	return params
}
