package query

import (
	"strconv"
	"strings"
)

// Params are the slot values passed to a catalog function.
type Params map[string]any

func (p Params) Has(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return len(strings.TrimSpace(t)) > 0
	case []string:
		return len(t) > 0
	case int:
		return t != 0
	}
	return true
}

func (p Params) String(key string) string {
	switch t := p[key].(type) {
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

func (p Params) Strings(key string) []string {
	switch t := p[key].(type) {
	case []string:
		return t
	case string:
		if len(strings.TrimSpace(t)) == 0 {
			return nil
		}
		var out []string
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); len(s) > 0 {
				out = append(out, s)
			}
		}
		return out
	case []any:
		var out []string
		for _, v := range t {
			if s, ok := v.(string); ok && len(s) > 0 {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (p Params) Int(key string) int {
	switch t := p[key].(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	}
	return 0
}

// Limit clamps the limit parameter to 1..MaxLimit.
func (p Params) Limit() int {
	n := p.Int(ParamLimit)
	if n <= 0 {
		return DefaultLimit
	}
	return min(n, MaxLimit)
}
