package getsafe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessors(t *testing.T) {
	payload := map[string]any{
		"name":     "Sa Pa",
		"temp":     11.5,
		"humidity": json.Number("88"),
		"wind":     "2.4",
		"main":     map[string]any{"temp": 10},
		"weather":  []any{map[string]any{"description": "mưa nhỏ"}},
	}

	assert.Equal(t, "Sa Pa", String(payload, "name"))
	assert.Equal(t, "", String(payload, "temp"))
	assert.Equal(t, 11.5, Float(payload, "temp"))
	assert.Equal(t, 88, Int(payload, "humidity"))
	assert.Equal(t, 2.4, Float(payload, "wind"))
	assert.Equal(t, 10.0, Float(Map(payload, "main"), "temp"))
	assert.Equal(t, "mưa nhỏ", String(FirstMap(payload, "weather"), "description"))
	assert.Nil(t, Map(payload, "missing"))
	assert.Nil(t, FirstMap(payload, "name"))
}

func TestObject(t *testing.T) {
	m, ok := Object(`{"temp": 20}`)
	require.True(t, ok)
	assert.Equal(t, 20.0, Float(m, "temp"))

	_, ok = Object("not json")
	assert.False(t, ok)

	_, ok = Object(42)
	assert.False(t, ok)
}
