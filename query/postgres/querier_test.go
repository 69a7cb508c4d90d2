package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/query"
)

func TestBuildTopHotelsIsTotallyOrdered(t *testing.T) {
	stmt, args := buildTopHotels([]string{"%Hồ Chí Minh%"}, 5)

	assert.Contains(t, stmt, "h.city ILIKE ANY($1)")
	assert.Contains(t, stmt, "LIMIT $2")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(strings.Split(stmt, "LIMIT")[0]), "h.hotel_id ASC"))
	require.Len(t, args, 2)
	assert.Equal(t, 5, args[1])

	again, _ := buildTopHotels([]string{"%Hồ Chí Minh%"}, 5)
	assert.Equal(t, stmt, again)
}

func TestBuildHotelsWithAmenities(t *testing.T) {
	stmt, args := buildHotelsWithAmenities(
		[]string{"%Hồ Chí Minh%"},
		[][]string{{"%hồ bơi%", "%pool%"}, {"%wifi%"}},
		3,
	)

	assert.Equal(t, 2, strings.Count(stmt, "AND EXISTS"))
	assert.Contains(t, stmt, "a.name ILIKE ANY($2)")
	assert.Contains(t, stmt, "a.name ILIKE ANY($3)")
	assert.Contains(t, stmt, "LIMIT $4")
	assert.Len(t, args, 4)
}

func TestBuildPromotionsInWindow(t *testing.T) {
	start := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	stmt, args := buildPromotionsInWindow(start, end, "SUMMER25", nil, 10)

	assert.Contains(t, stmt, "p.valid_from < $1 AND p.valid_until >= $2")
	assert.Contains(t, stmt, "p.code ILIKE $3")
	assert.NotContains(t, stmt, "h.city ILIKE")
	assert.Contains(t, stmt, "p.promotion_id ASC")
	require.Len(t, args, 4)
	assert.Equal(t, "%SUMMER25%", args[2])
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off`, escapeLike("50%_off"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want query.Kind
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: query.Transient},
		{name: "bad conn", err: fmt.Errorf("exec: %w", driver.ErrBadConn), want: query.Transient},
		{name: "connection failure", err: &pq.Error{Code: "08006"}, want: query.Transient},
		{name: "too many connections", err: &pq.Error{Code: "53300"}, want: query.Transient},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, want: query.Transient},
		{name: "serialization", err: &pq.Error{Code: "40001"}, want: query.Transient},
		{name: "undefined column", err: &pq.Error{Code: "42703"}, want: query.Fatal},
		{name: "syntax", err: &pq.Error{Code: "42601"}, want: query.Fatal},
		{name: "unknown", err: errors.New("boom"), want: query.Fatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(query.TopHotelsByCity, tt.err)

			var qe *query.QueryError
			require.True(t, errors.As(err, &qe))
			assert.Equal(t, tt.want, qe.Kind)
			assert.Equal(t, query.TopHotelsByCity, qe.Function)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestQuerierValidatesBeforeTouchingDatabase(t *testing.T) {
	q := newQuerier(nil, query.NewOptions())

	assert.Len(t, q.Specs(), 7)

	_, err := q.Execute(context.Background(), query.TopHotelsByCity, query.Params{})
	assert.True(t, errors.Is(err, query.ErrParamMissing))

	_, err = q.Execute(context.Background(), query.PromotionsByKeywordCityMonth, query.Params{query.ParamMonth: 13})
	assert.True(t, errors.Is(err, query.ErrParamMissing))
}

func TestCityPatternsIncludeAliases(t *testing.T) {
	q := newQuerier(nil, query.NewOptions())

	patterns := q.cityPatterns("Hồ Chí Minh")

	assert.Contains(t, patterns, "%Hồ Chí Minh%")
	assert.Contains(t, patterns, "%sai gon%")
	assert.Contains(t, patterns, "%hcm%")
}
