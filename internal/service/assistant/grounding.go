package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/w-h-a/bookflow/storer"
)

const (
	groundedTemperature   = 0.2
	ungroundedTemperature = 0.5
	rerankTemperature     = 0.0
)

const assistantPersona = "Bạn là trợ lý du lịch Việt Nam thân thiện. Luôn trả lời bằng tiếng Việt, ngắn gọn, tối đa 5 câu."

var (
	numberPattern   = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
	quantityPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)*)\s*(triệu|trăm|tr|nghìn|ngàn|tỷ|tỉ|đồng|vnđ|vnd|usd|đ|k|%)`)
)

// grounded reports whether generated text may be shown: it must be
// non-empty Vietnamese text and every multi-digit number in it must occur
// in the sources. Prices and percentages must occur whatever their length.
func grounded(output string, sources ...string) bool {
	output = strings.TrimSpace(output)
	if len(output) == 0 || storer.ViolatesLanguagePolicy(output) {
		return false
	}

	known := map[string]struct{}{}
	for _, src := range sources {
		for _, n := range numberPattern.FindAllString(src, -1) {
			known[digits(n)] = struct{}{}
		}
	}

	amounts := quantities(output)

	for _, loc := range numberPattern.FindAllStringIndex(output, -1) {
		d := digits(output[loc[0]:loc[1]])
		if _, ok := amounts[loc[0]]; !ok && len(d) < 2 {
			continue
		}
		if _, ok := known[d]; !ok {
			return false
		}
	}

	return true
}

// quantities returns the offsets of numbers followed by a money, size or
// percent unit. A unit must end the word: "5 khu" is not "5k".
func quantities(s string) map[int]struct{} {
	out := map[int]struct{}{}

	for _, m := range quantityPattern.FindAllStringSubmatchIndex(s, -1) {
		if next, _ := utf8.DecodeRuneInString(s[m[1]:]); m[1] < len(s) && unicode.IsLetter(next) {
			continue
		}
		out[m[2]] = struct{}{}
	}

	return out
}

func digits(n string) string {
	return strings.NewReplacer(".", "", ",", "").Replace(n)
}

func groundedPrompt(message string, records []storer.Record) string {
	var sb bytes.Buffer

	sb.WriteString(assistantPersona)
	sb.WriteString("\nChỉ sử dụng thông tin trong phần DỮ LIỆU. Không tự thêm giá, số liệu hay tên địa điểm không có trong dữ liệu. Nếu dữ liệu không đủ, hãy nói là chưa có thông tin.")
	sb.WriteString("\n\nDỮ LIỆU:\n")
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", rec.Metadata.Name, rec.Metadata.Province, snippet(rec.Content)))
	}
	sb.WriteString("\nCÂU HỎI: ")
	sb.WriteString(message)
	sb.WriteString("\nTRẢ LỜI:")

	return sb.String()
}

func ungroundedPrompt(message string) string {
	var sb bytes.Buffer

	sb.WriteString(assistantPersona)
	sb.WriteString("\nKhông đưa ra giá cả hay số liệu cụ thể. Nếu không chắc chắn, hãy gợi ý người dùng hỏi lại cụ thể hơn.")
	sb.WriteString("\n\nCÂU HỎI: ")
	sb.WriteString(message)
	sb.WriteString("\nTRẢ LỜI:")

	return sb.String()
}

func rerankPrompt(message string, records []storer.Record) string {
	var sb bytes.Buffer

	sb.WriteString("Chọn tài liệu phù hợp nhất với câu hỏi. Trả về JSON dạng {\"index\": <số thứ tự>}.")
	sb.WriteString("\n\nCÂU HỎI: ")
	sb.WriteString(message)
	sb.WriteString("\n\nTÀI LIỆU:\n")
	for i, rec := range records {
		sb.WriteString(fmt.Sprintf("%d. %s (%s): %s\n", i, rec.Metadata.Name, rec.Metadata.Province, firstSentence(rec.Content)))
	}

	return sb.String()
}

// parseRerank reads the chosen index, falling back to the top result.
func parseRerank(output string, n int) int {
	var choice struct {
		Index *int `json:"index"`
	}

	output = strings.TrimSpace(output)
	if i := strings.Index(output, "{"); i >= 0 {
		if j := strings.LastIndex(output, "}"); j > i {
			output = output[i : j+1]
		}
	}

	if err := json.Unmarshal([]byte(output), &choice); err != nil || choice.Index == nil {
		return 0
	}

	if *choice.Index < 0 || *choice.Index >= n {
		return 0
	}

	return *choice.Index
}
