package nlu

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	weatherKeywords = []string{
		"thoi tiet", "du bao", "troi mua", "co mua", "mua khong", "troi nang", "troi lanh", "troi mat",
		"nhiet do", "do am", "may do", "bao nhieu do", "weather",
	}
	promotionKeywords = []string{
		"khuyen mai", "giam gia", "ma giam", "ma giam gia", "ma khuyen mai", "voucher", "uu dai",
		"coupon", "promotion", "promo", "sale", "deal",
	}
	hotelKeywords = []string{
		"khach san", "hotel", "resort", "homestay", "nha nghi", "cho o", "cho nghi", "luu tru",
		"dat phong", "phong nghi", "villa", "ks",
	}
	distanceKeywords = []string{
		"bao xa", "khoang cach", "bao nhieu km", "may km", "cach bao nhieu", "mat bao lau", "bao lau thi toi",
	}
	detailKeywords = []string{
		"ve", "gia ve", "ve vao cua", "ve vao cong", "bao nhieu", "o dau", "dia chi", "mo cua", "gio mo cua",
		"dong cua", "review", "danh gia", "co gi", "co gi hay", "nam o", "quan nao", "gioi thieu",
		"the nao", "ra sao", "nhu the nao", "co dep khong", "co ngon khong", "lich su", "noi tieng", "ban o dau",
	}
	foodKeywords = []string{
		"an", "mon", "dac san", "dac trung", "am thuc", "an gi", "an vat", "quan an", "quan ngon",
		"com", "bun", "pho", "mi", "lau", "banh", "ngon", "am bung", "do an",
	}
	placeKeywords = []string{
		"di dau", "choi", "vui choi", "tham quan", "dia danh", "dia diem", "diem den", "check in", "checkin",
		"chup anh", "leo nui", "bien", "vinh", "du lich", "canh dep", "phuot", "kham pha", "tour", "song ao",
	}
	anaphoraKeywords = []string{
		"o do", "len do", "ra do", "vao do", "xuong do", "toi do", "den do", "cho do", "noi do",
		"ngoai do", "trong do", "dia diem nay", "dia diem do", "cho nay", "noi nay", "no",
		"mon nay", "mon do", "o day", "quan do",
	}
	chatKeywords = []string{
		"chao", "xin chao", "hello", "hi", "cam on", "ban la ai", "ten gi", "ban khoe", "tam biet", "ok",
	}
)

type amenityTerm struct {
	label   string
	phrases []string
}

var amenityVocabulary = []amenityTerm{
	{label: "hồ bơi", phrases: []string{"ho boi", "be boi", "pool", "hoboi"}},
	{label: "wifi", phrases: []string{"wifi", "wi fi", "internet"}},
	{label: "bãi đỗ xe", phrases: []string{"bai do xe", "bai dau xe", "cho dau xe", "cho do xe", "giu xe", "parking"}},
	{label: "phòng gym", phrases: []string{"phong gym", "phong tap", "gym", "fitness"}},
	{label: "spa", phrases: []string{"spa", "massage"}},
	{label: "nhà hàng", phrases: []string{"nha hang", "restaurant"}},
	{label: "bữa sáng", phrases: []string{"bua sang", "breakfast"}},
	{label: "đưa đón sân bay", phrases: []string{"dua don san bay", "don san bay", "xe dua don", "airport"}},
	{label: "view biển", phrases: []string{"view bien", "huong bien", "nhin ra bien", "gan bien"}},
	{label: "thú cưng", phrases: []string{"thu cung", "pet"}},
	{label: "điều hòa", phrases: []string{"dieu hoa", "may lanh"}},
	{label: "quầy bar", phrases: []string{"quay bar", "bar"}},
}

type Region struct {
	Code string
	Name string
}

var regionDictionary = []struct {
	region Region
	keys   []string
}{
	{region: Region{Code: "DBSCL", Name: "Miền Tây (ĐBSCL)"}, keys: []string{"mien tay", "dbscl", "dong bang song cuu long"}},
	{region: Region{Code: "MTR", Name: "Miền Trung"}, keys: []string{"mien trung"}},
	{region: Region{Code: "DNB", Name: "Đông Nam Bộ"}, keys: []string{"dong nam bo"}},
	{region: Region{Code: "DBSH", Name: "Đồng bằng sông Hồng"}, keys: []string{"dong bang song hong", "dbsh", "song hong"}},
	{region: Region{Code: "TNM", Name: "Tây Nguyên"}, keys: []string{"tay nguyen"}},
	{region: Region{Code: "DB", Name: "Đông Bắc"}, keys: []string{"dong bac"}},
	{region: Region{Code: "TB", Name: "Tây Bắc"}, keys: []string{"tay bac"}},
}

func detectRegion(normalized string) *Region {
	for _, r := range regionDictionary {
		if hasPhrase(normalized, r.keys) {
			region := r.region
			return &region
		}
	}
	return nil
}

// Filters are soft preferences used to steer retrieval and prompts.
type Filters struct {
	Meal       string `json:"meal,omitempty"`
	Spice      string `json:"spice,omitempty"`
	Price      string `json:"price,omitempty"`
	Vegetarian bool   `json:"vegetarian,omitempty"`
	Seafood    bool   `json:"seafood,omitempty"`
	Indoor     bool   `json:"indoor,omitempty"`
	Outdoor    bool   `json:"outdoor,omitempty"`
	Kids       bool   `json:"kids,omitempty"`
	Family     bool   `json:"family,omitempty"`
}

func (f Filters) Terms() []string {
	var terms []string
	switch f.Meal {
	case "sang":
		terms = append(terms, "bữa sáng")
	case "trua":
		terms = append(terms, "bữa trưa")
	case "toi", "dem":
		terms = append(terms, "buổi tối")
	}
	switch f.Spice {
	case "less":
		terms = append(terms, "ít cay")
	case "none":
		terms = append(terms, "không cay")
	}
	if f.Vegetarian {
		terms = append(terms, "món chay")
	}
	if f.Seafood {
		terms = append(terms, "hải sản")
	}
	if f.Indoor {
		terms = append(terms, "trong nhà")
	}
	if f.Outdoor {
		terms = append(terms, "ngoài trời")
	}
	if f.Kids {
		terms = append(terms, "trẻ em")
	}
	if f.Family {
		terms = append(terms, "gia đình")
	}
	switch f.Price {
	case "low":
		terms = append(terms, "giá rẻ")
	case "high":
		terms = append(terms, "cao cấp")
	}
	return terms
}

func extractFilters(normalized string) Filters {
	var f Filters

	switch {
	case hasPhrase(normalized, []string{"sang", "bua sang"}):
		f.Meal = "sang"
	case hasPhrase(normalized, []string{"trua"}):
		f.Meal = "trua"
	case hasPhrase(normalized, []string{"toi"}):
		f.Meal = "toi"
	case hasPhrase(normalized, []string{"dem"}):
		f.Meal = "dem"
	}

	if hasPhrase(normalized, []string{"it cay"}) {
		f.Spice = "less"
	}
	if hasPhrase(normalized, []string{"khong cay"}) {
		f.Spice = "none"
	}

	f.Vegetarian = hasPhrase(normalized, []string{"chay", "an chay"})
	f.Seafood = hasPhrase(normalized, []string{"hai san"})
	f.Indoor = hasPhrase(normalized, []string{"trong nha"})
	f.Outdoor = hasPhrase(normalized, []string{"ngoai troi"})
	f.Kids = hasPhrase(normalized, []string{"tre em", "tre con"})
	f.Family = hasPhrase(normalized, []string{"gia dinh"})

	switch {
	case hasPhrase(normalized, []string{"re", "binh dan", "tiet kiem"}):
		f.Price = "low"
	case hasPhrase(normalized, []string{"cao cap", "sang trong"}):
		f.Price = "high"
	}

	return f
}

var (
	topNPattern   = regexp.MustCompile(`\btop\s*(\d{1,3})\b`)
	countPattern  = regexp.MustCompile(`\b(\d{1,3}) (khach san|ks|mon|dia danh|dia diem|diem|noi|cho|resort|homestay|khuyen mai|ma)\b`)
	promoCodeExpr = regexp.MustCompile(`\b[A-Z0-9][A-Z0-9_-]{3,}\b`)
)

const (
	DefaultTopN = 5
	MaxTopN     = 20
)

func extractTopN(normalized string) int {
	for _, re := range []*regexp.Regexp{topNPattern, countPattern} {
		if m := re.FindStringSubmatch(normalized); m != nil {
			n, _ := strconv.Atoi(m[1])
			return max(1, min(MaxTopN, n))
		}
	}
	return DefaultTopN
}

// extractPromoCode picks an uppercase token mixing letters and digits from
// the raw message, e.g. "SUMMER25".
func extractPromoCode(raw string) string {
	for _, m := range promoCodeExpr.FindAllString(raw, -1) {
		if strings.ContainsAny(m, "0123456789") && strings.ContainsAny(m, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			return m
		}
	}
	return ""
}

// AmenityPhrases returns the label followed by every phrase that maps to it.
func AmenityPhrases(label string) []string {
	for _, term := range amenityVocabulary {
		if term.label == label {
			return append([]string{term.label}, term.phrases...)
		}
	}
	return []string{label}
}
