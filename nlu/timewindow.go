package nlu

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TimeWindow is a month range the user asked about. EndMonth equals Month
// for a single month and may wrap past December for winter phrases.
type TimeWindow struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	EndMonth int    `json:"end_month"`
	Label    string `json:"label"`
}

func (w TimeWindow) String() string {
	if w.EndMonth == w.Month {
		return fmt.Sprintf("tháng %d/%d", w.Month, w.Year)
	}
	return fmt.Sprintf("tháng %d-%d/%d", w.Month, w.EndMonth, w.Year)
}

var (
	monthPattern = regexp.MustCompile(`\bthang (\d{1,2})\b`)
	yearPattern  = regexp.MustCompile(`\b(?:nam )?(20\d{2})\b`)
)

var seasonWindows = []struct {
	phrases []string
	start   int
	end     int
	label   string
}{
	{phrases: []string{"mua xuan"}, start: 1, end: 3, label: "mùa xuân"},
	{phrases: []string{"mua he", "he nay", "nghi he"}, start: 6, end: 8, label: "mùa hè"},
	{phrases: []string{"mua thu"}, start: 9, end: 11, label: "mùa thu"},
	{phrases: []string{"mua dong"}, start: 12, end: 2, label: "mùa đông"},
	{phrases: []string{"tet", "dip tet"}, start: 1, end: 2, label: "Tết"},
	{phrases: []string{"cuoi nam"}, start: 12, end: 12, label: "cuối năm"},
	{phrases: []string{"dau nam"}, start: 1, end: 1, label: "đầu năm"},
}

// extractTimeWindow reads month and season phrases relative to now. A month
// that has already passed this year refers to next year unless a year is given.
func extractTimeWindow(normalized string, now time.Time) *TimeWindow {
	current := int(now.Month())

	var w *TimeWindow

	switch {
	case hasPhrase(normalized, []string{"thang nay"}):
		w = &TimeWindow{Month: current, EndMonth: current, Label: "tháng này"}
	case hasPhrase(normalized, []string{"thang sau", "thang toi"}):
		next := current%12 + 1
		w = &TimeWindow{Month: next, EndMonth: next, Label: "tháng sau"}
	default:
		if m := monthPattern.FindStringSubmatch(normalized); m != nil {
			n, _ := strconv.Atoi(m[1])
			if n >= 1 && n <= 12 {
				w = &TimeWindow{Month: n, EndMonth: n, Label: fmt.Sprintf("tháng %d", n)}
			}
		}
	}

	if w == nil {
		for _, s := range seasonWindows {
			if hasPhrase(normalized, s.phrases) {
				w = &TimeWindow{Month: s.start, EndMonth: s.end, Label: s.label}
				break
			}
		}
	}

	if w == nil {
		return nil
	}

	if m := yearPattern.FindStringSubmatch(normalized); m != nil {
		w.Year, _ = strconv.Atoi(m[1])
		return w
	}

	w.Year = now.Year()
	if w.EndMonth >= w.Month && w.EndMonth < current {
		w.Year++
	}

	return w
}
