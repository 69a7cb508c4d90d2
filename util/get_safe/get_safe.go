package getsafe

import (
	"encoding/json"
	"strconv"
	"strings"
)

func String(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		switch s := v.(type) {
		case string:
			return s
		case json.Number:
			return s.String()
		}
	}
	return ""
}

func Float(payload map[string]any, key string) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return 0
}

func Int(payload map[string]any, key string) int {
	return int(Float(payload, key))
}

func Map(payload map[string]any, key string) map[string]any {
	if v, ok := payload[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// FirstMap returns the first object of a list value.
func FirstMap(payload map[string]any, key string) map[string]any {
	if v, ok := payload[key]; ok {
		if list, ok := v.([]any); ok && len(list) > 0 {
			if m, ok := list[0].(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// Object coerces a tool result into a map, decoding JSON text when needed.
func Object(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err == nil {
			return m, true
		}
	case []byte:
		var m map[string]any
		if err := json.Unmarshal(v, &m); err == nil {
			return m, true
		}
	}
	return nil, false
}
