package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/nlu"
	"github.com/w-h-a/bookflow/query"
)

func TestDispatch(t *testing.T) {
	window := &nlu.TimeWindow{Year: 2026, Month: 7, EndMonth: 7}

	tests := []struct {
		name     string
		res      nlu.IntentResult
		function string
		ok       bool
	}{
		{
			name:     "hotels with city and amenities",
			res:      nlu.IntentResult{Intent: nlu.IntentHotels, Entities: nlu.Entities{City: "Hồ Chí Minh", Amenities: []string{"hồ bơi"}}},
			function: query.HotelsByCityWithAmenities,
			ok:       true,
		},
		{
			name:     "hotels with city",
			res:      nlu.IntentResult{Intent: nlu.IntentHotels, Entities: nlu.Entities{City: "Đà Nẵng"}},
			function: query.TopHotelsByCity,
			ok:       true,
		},
		{
			name:     "hotels without city",
			res:      nlu.IntentResult{Intent: nlu.IntentHotels},
			function: query.ListHotelCities,
			ok:       true,
		},
		{
			name:     "promotions with window and city prefer the earlier route",
			res:      nlu.IntentResult{Intent: nlu.IntentPromotions, Entities: nlu.Entities{City: "Đà Nẵng", TimeWindow: window}},
			function: query.PromotionsByKeywordCityMonth,
			ok:       true,
		},
		{
			name:     "promotions with city",
			res:      nlu.IntentResult{Intent: nlu.IntentPromotions, Entities: nlu.Entities{City: "Đà Nẵng"}},
			function: query.PromotionsByCity,
			ok:       true,
		},
		{
			name:     "promotions today",
			res:      nlu.IntentResult{Intent: nlu.IntentPromotions},
			function: query.PromotionsValidToday,
			ok:       true,
		},
		{
			name: "informational intents never dispatch",
			res:  nlu.IntentResult{Intent: nlu.IntentPlaces, Entities: nlu.Entities{City: "Đà Nẵng"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, ok := Dispatch(tt.res)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.function, route.Function)
		})
	}
}

func TestRouteParams(t *testing.T) {
	res := nlu.IntentResult{
		Intent: nlu.IntentPromotions,
		Entities: nlu.Entities{
			City:       "Khánh Hòa",
			Keyword:    "SUMMER25",
			TopN:       3,
			TimeWindow: &nlu.TimeWindow{Year: 2026, Month: 6, EndMonth: 8},
		},
	}

	route, ok := Dispatch(res)
	require.True(t, ok)

	params := route.Params(res)

	assert.Equal(t, 3, params.Limit())
	assert.Equal(t, "Khánh Hòa", params.String(query.ParamCity))
	assert.Equal(t, "SUMMER25", params.String(query.ParamKeyword))
	assert.Equal(t, 6, params.Int(query.ParamMonth))
	assert.Equal(t, 8, params.Int(query.ParamEndMonth))
	assert.Equal(t, 2026, params.Int(query.ParamYear))
	assert.False(t, params.Has(query.ParamAmenities))
}
