package query

const (
	hotelOrdering     = "avg_rating desc, stars desc, review_count desc, id asc"
	promotionOrdering = "valid_until asc, id asc"
)

// Specs returns the fixed function catalog in declaration order.
func Specs() []Spec {
	return []Spec{
		{
			Name:           TopHotelsByCity,
			Description:    "highest rated hotels in a city",
			RequiredParams: []string{ParamCity},
			OptionalParams: []string{ParamLimit},
			Ordering:       hotelOrdering,
		},
		{
			Name:           HotelsByCityWithAmenities,
			Description:    "hotels in a city offering every listed amenity",
			RequiredParams: []string{ParamCity, ParamAmenities},
			OptionalParams: []string{ParamLimit},
			Ordering:       hotelOrdering,
		},
		{
			Name:           SearchHotels,
			Description:    "hotels whose name or address contains a keyword",
			RequiredParams: []string{ParamKeyword},
			OptionalParams: []string{ParamCity, ParamLimit},
			Ordering:       hotelOrdering,
		},
		{
			Name:        ListHotelCities,
			Description: "cities with at least one hotel",
			Ordering:    "city asc",
		},
		{
			Name:           PromotionsValidToday,
			Description:    "promotions valid today",
			OptionalParams: []string{ParamLimit},
			Ordering:       promotionOrdering,
		},
		{
			Name:           PromotionsByCity,
			Description:    "promotions valid today for hotels in a city",
			RequiredParams: []string{ParamCity},
			OptionalParams: []string{ParamLimit},
			Ordering:       promotionOrdering,
		},
		{
			Name:           PromotionsByKeywordCityMonth,
			Description:    "promotions overlapping a month, optionally by code keyword and city",
			RequiredParams: []string{ParamMonth},
			OptionalParams: []string{ParamKeyword, ParamCity, ParamYear, ParamEndMonth, ParamLimit},
			Ordering:       promotionOrdering,
		},
	}
}

func SpecFor(name string) (Spec, bool) {
	for _, s := range Specs() {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}
