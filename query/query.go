package query

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	TopHotelsByCity              = "top_hotels_by_city"
	HotelsByCityWithAmenities    = "hotels_by_city_with_amenities"
	SearchHotels                 = "search_hotels"
	ListHotelCities              = "list_hotel_cities"
	PromotionsValidToday         = "promotions_valid_today"
	PromotionsByCity             = "promotions_by_city"
	PromotionsByKeywordCityMonth = "promotions_by_keyword_city_month"
)

const (
	ParamCity      = "city"
	ParamAmenities = "amenities"
	ParamKeyword   = "keyword"
	ParamMonth     = "month"
	ParamYear      = "year"
	ParamEndMonth  = "end_month"
	ParamLimit     = "limit"
)

const (
	DefaultLimit = 5
	MaxLimit     = 20
)

var (
	ErrParamMissing    = errors.New("required query parameter missing")
	ErrUnknownFunction = errors.New("unknown query function")
)

type Kind string

const (
	Transient Kind = "transient"
	Fatal     Kind = "fatal"
)

// QueryError is a database failure. Transient errors may be retried once.
type QueryError struct {
	Kind     Kind
	Function string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed (%s): %v", e.Function, e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == Transient
}

func IsFatal(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == Fatal
}

type Hotel struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Address     string   `json:"address,omitempty"`
	Stars       int      `json:"stars"`
	AvgRating   float64  `json:"avg_rating"`
	ReviewCount int      `json:"review_count"`
	MinPrice    float64  `json:"min_price,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}

type Promotion struct {
	Id            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	HotelName     string    `json:"hotel_name,omitempty"`
	City          string    `json:"city,omitempty"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
}

// Result holds the rows of exactly one catalog function.
type Result struct {
	Function   string      `json:"function"`
	Hotels     []Hotel     `json:"hotels,omitempty"`
	Promotions []Promotion `json:"promotions,omitempty"`
	Cities     []string    `json:"cities,omitempty"`
}

func (r Result) Empty() bool {
	return len(r.Hotels) == 0 && len(r.Promotions) == 0 && len(r.Cities) == 0
}

// Querier runs catalog functions by name.
type Querier interface {
	Execute(ctx context.Context, name string, params Params) (Result, error)
	Specs() []Spec
}
