package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

const hotelSelect = `
	SELECT
		h.hotel_id::text,
		h.name,
		COALESCE(h.city, ''),
		COALESCE(h.address, ''),
		COALESCE(h.star_rating, 0)::int,
		COALESCE(r.avg_rating, 0)::float8,
		COALESCE(r.review_count, 0)::int,
		COALESCE((SELECT MIN(rt.base_price) FROM room_types rt WHERE rt.hotel_id = h.hotel_id), 0)::float8,
		ARRAY(
			SELECT a.name
			FROM hotel_amenities ha
			JOIN amenities a ON a.amenity_id = ha.amenity_id
			WHERE ha.hotel_id = h.hotel_id
			ORDER BY a.name
		)
	FROM hotels h
	LEFT JOIN (
		SELECT hotel_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count
		FROM reviews
		GROUP BY hotel_id
	) r ON r.hotel_id = h.hotel_id
	WHERE h.status = 'approved'`

// the hotel id makes the order total
const hotelOrder = `
	ORDER BY
		COALESCE(r.avg_rating, 0) DESC,
		COALESCE(h.star_rating, 0) DESC,
		COALESCE(r.review_count, 0) DESC,
		h.hotel_id ASC`

const promotionSelect = `
	SELECT
		p.promotion_id::text,
		p.code,
		COALESCE(p.name, ''),
		COALESCE(p.description, ''),
		COALESCE(h.name, ''),
		COALESCE(h.city, ''),
		COALESCE(p.discount_type, ''),
		COALESCE(p.discount_value, 0)::float8,
		p.valid_from,
		p.valid_until
	FROM promotions p
	LEFT JOIN hotels h ON h.hotel_id = p.hotel_id
	WHERE p.status = 'active'`

const promotionOrder = `
	ORDER BY
		p.valid_until ASC,
		p.promotion_id ASC`

const listCitiesQuery = `
	SELECT DISTINCT h.city
	FROM hotels h
	WHERE h.status = 'approved' AND COALESCE(h.city, '') <> ''
	ORDER BY h.city ASC`

// args numbers positional parameters as they are added.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

func buildTopHotels(city []string, limit int) (string, []any) {
	var a args

	var b strings.Builder
	b.WriteString(hotelSelect)
	fmt.Fprintf(&b, "\n\t\tAND h.city ILIKE ANY(%s)", a.add(pq.Array(city)))
	b.WriteString(hotelOrder)
	fmt.Fprintf(&b, "\n\tLIMIT %s", a.add(limit))

	return b.String(), a
}

// buildHotelsWithAmenities requires one match per amenity; each entry of
// amenities holds the patterns of one amenity.
func buildHotelsWithAmenities(city []string, amenities [][]string, limit int) (string, []any) {
	var a args

	var b strings.Builder
	b.WriteString(hotelSelect)
	fmt.Fprintf(&b, "\n\t\tAND h.city ILIKE ANY(%s)", a.add(pq.Array(city)))

	for _, patterns := range amenities {
		fmt.Fprintf(&b, `
		AND EXISTS (
			SELECT 1
			FROM hotel_amenities ha
			JOIN amenities a ON a.amenity_id = ha.amenity_id
			WHERE ha.hotel_id = h.hotel_id AND a.name ILIKE ANY(%s)
		)`, a.add(pq.Array(patterns)))
	}

	b.WriteString(hotelOrder)
	fmt.Fprintf(&b, "\n\tLIMIT %s", a.add(limit))

	return b.String(), a
}

func buildSearchHotels(keyword string, city []string, limit int) (string, []any) {
	var a args

	var b strings.Builder
	b.WriteString(hotelSelect)

	kw := a.add("%" + escapeLike(keyword) + "%")
	fmt.Fprintf(&b, "\n\t\tAND (h.name ILIKE %s OR h.address ILIKE %s OR h.description ILIKE %s)", kw, kw, kw)

	if len(city) > 0 {
		fmt.Fprintf(&b, "\n\t\tAND h.city ILIKE ANY(%s)", a.add(pq.Array(city)))
	}

	b.WriteString(hotelOrder)
	fmt.Fprintf(&b, "\n\tLIMIT %s", a.add(limit))

	return b.String(), a
}

func buildPromotionsValidToday(now time.Time, city []string, limit int) (string, []any) {
	var a args

	var b strings.Builder
	b.WriteString(promotionSelect)

	today := a.add(now)
	fmt.Fprintf(&b, "\n\t\tAND p.valid_from <= %s AND p.valid_until >= %s", today, today)

	if len(city) > 0 {
		fmt.Fprintf(&b, "\n\t\tAND h.city ILIKE ANY(%s)", a.add(pq.Array(city)))
	}

	b.WriteString(promotionOrder)
	fmt.Fprintf(&b, "\n\tLIMIT %s", a.add(limit))

	return b.String(), a
}

// buildPromotionsInWindow selects promotions overlapping [start, end).
func buildPromotionsInWindow(start, end time.Time, keyword string, city []string, limit int) (string, []any) {
	var a args

	var b strings.Builder
	b.WriteString(promotionSelect)

	fmt.Fprintf(&b, "\n\t\tAND p.valid_from < %s AND p.valid_until >= %s", a.add(end), a.add(start))

	if len(strings.TrimSpace(keyword)) > 0 {
		kw := a.add("%" + escapeLike(strings.TrimSpace(keyword)) + "%")
		fmt.Fprintf(&b, "\n\t\tAND (p.code ILIKE %s OR p.name ILIKE %s OR p.description ILIKE %s)", kw, kw, kw)
	}

	if len(city) > 0 {
		fmt.Fprintf(&b, "\n\t\tAND h.city ILIKE ANY(%s)", a.add(pq.Array(city)))
	}

	b.WriteString(promotionOrder)
	fmt.Fprintf(&b, "\n\tLIMIT %s", a.add(limit))

	return b.String(), a
}

func likePatterns(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); len(v) > 0 {
			out = append(out, "%"+escapeLike(v)+"%")
		}
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
