package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/w-h-a/bookflow/nlu"
	"github.com/w-h-a/bookflow/query"
	"github.com/w-h-a/bookflow/storer"
)

const (
	ApologyMessage     = "Xin lỗi, mình đang gặp trục trặc khi xử lý câu hỏi này. Bạn vui lòng thử lại sau nhé."
	UnavailableMessage = "Hệ thống đang tạm thời gián đoạn, bạn vui lòng thử lại sau ít phút."
	smallTalkMessage   = "Chào bạn! Mình là trợ lý du lịch, có thể gợi ý địa điểm, món ăn đặc sản, khách sạn và khuyến mãi. Bạn đang muốn đi đâu?"
	notFoundMessage    = "Mình chưa tìm thấy thông tin phù hợp cho câu hỏi này. Bạn thử hỏi cụ thể hơn về địa điểm hoặc thành phố nhé."
	missingEntity      = "Bạn đang hỏi về địa điểm hay món ăn nào? Hãy cho mình biết tên cụ thể để mình trả lời chính xác nhé."
	snippetRunes       = 280
)

func composeHotels(fn string, res nlu.IntentResult, hotels []query.Hotel) string {
	var b strings.Builder

	city := res.Entities.City
	switch fn {
	case query.HotelsByCityWithAmenities:
		fmt.Fprintf(&b, "Các khách sạn tại %s có %s:\n", city, strings.Join(res.Entities.Amenities, ", "))
	default:
		fmt.Fprintf(&b, "Top %d khách sạn tại %s:\n", len(hotels), city)
	}

	for i, h := range hotels {
		fmt.Fprintf(&b, "%d. %s", i+1, h.Name)
		if h.Stars > 0 {
			fmt.Fprintf(&b, " (%d sao", h.Stars)
			if h.ReviewCount > 0 {
				fmt.Fprintf(&b, ", %.1f/5 từ %d đánh giá", h.AvgRating, h.ReviewCount)
			}
			b.WriteString(")")
		}
		if len(h.Address) > 0 {
			fmt.Fprintf(&b, " - %s", h.Address)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

func composeCities(cities []string) string {
	return fmt.Sprintf("Bạn muốn tìm khách sạn ở thành phố nào? Hiện có khách sạn tại: %s.", strings.Join(cities, ", "))
}

func composePromotions(res nlu.IntentResult, promos []query.Promotion) string {
	var b strings.Builder

	b.WriteString("Các khuyến mãi")
	if w := res.Entities.TimeWindow; w != nil {
		fmt.Fprintf(&b, " trong %s", w.String())
	} else {
		b.WriteString(" đang áp dụng")
	}
	if len(res.Entities.City) > 0 {
		fmt.Fprintf(&b, " tại %s", res.Entities.City)
	}
	b.WriteString(":\n")

	for _, p := range promos {
		fmt.Fprintf(&b, "- %s", p.Code)
		if len(p.Name) > 0 {
			fmt.Fprintf(&b, ": %s", p.Name)
		}
		if d := discountText(p); len(d) > 0 {
			fmt.Fprintf(&b, " (%s)", d)
		}
		if len(p.HotelName) > 0 {
			fmt.Fprintf(&b, " tại %s", p.HotelName)
		}
		fmt.Fprintf(&b, ", hạn đến %s\n", p.ValidUntil.Format("02/01/2006"))
	}

	return strings.TrimSpace(b.String())
}

func discountText(p query.Promotion) string {
	if p.DiscountValue <= 0 {
		return ""
	}
	if strings.EqualFold(p.DiscountType, "percentage") || strings.EqualFold(p.DiscountType, "percent") {
		return fmt.Sprintf("giảm %g%%", p.DiscountValue)
	}
	return fmt.Sprintf("giảm %s đ", formatVND(p.DiscountValue))
}

func formatVND(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// composeDocuments summarizes records without generation.
func composeDocuments(intent nlu.Intent, city string, records []storer.Record) string {
	if len(records) == 1 || intent == nlu.IntentPlaceInfo {
		rec := records[0]
		return fmt.Sprintf("%s (%s): %s", rec.Metadata.Name, rec.Metadata.Province, snippet(rec.Content))
	}

	var b strings.Builder

	switch intent {
	case nlu.IntentDishes:
		b.WriteString("Một số món ngon nên thử")
	default:
		b.WriteString("Một số địa điểm nổi bật")
	}
	if len(city) > 0 {
		fmt.Fprintf(&b, " ở %s", city)
	}
	b.WriteString(":\n")

	for _, rec := range records {
		fmt.Fprintf(&b, "- %s: %s\n", rec.Metadata.Name, firstSentence(rec.Content))
	}

	return strings.TrimSpace(b.String())
}

func composeDistance(res nlu.IntentResult) string {
	if len(res.Entities.EntityName) > 0 {
		return fmt.Sprintf("Mình chưa hỗ trợ tính khoảng cách và đường đi tới %s. Bạn có thể tra cứu trên bản đồ để có lộ trình chính xác nhé.", res.Entities.EntityName)
	}
	return "Mình chưa hỗ trợ tính khoảng cách và đường đi giữa các địa điểm. Bạn có thể tra cứu trên bản đồ để có lộ trình chính xác nhé."
}

func snippet(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= snippetRunes {
		return content
	}
	runes := []rune(content)
	return strings.TrimSpace(string(runes[:snippetRunes])) + "..."
}

func firstSentence(content string) string {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, ". "); i > 0 {
		return content[:i+1]
	}
	return snippet(content)
}
