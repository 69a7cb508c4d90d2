package utcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/weather"
)

type fakeCaller struct {
	result any
	err    error
	tool   string
	args   map[string]any
}

func (f *fakeCaller) CallTool(ctx context.Context, toolName string, args map[string]any) (any, error) {
	f.tool = toolName
	f.args = args
	return f.result, f.err
}

func TestCurrentFlatPayload(t *testing.T) {
	caller := &fakeCaller{result: map[string]any{
		"description": "trời quang",
		"temp":        27.0,
		"humidity":    70.0,
		"wind_speed":  3.1,
	}}

	w := NewWeather(WithCaller(caller), WithToolName("openweather.current"))

	report, err := w.Current(context.Background(), "Quy Nhon")
	require.NoError(t, err)

	assert.Equal(t, "openweather.current", caller.tool)
	assert.Equal(t, "Quy Nhon", caller.args["station"])
	assert.Equal(t, "trời quang", report.Description)
	assert.Equal(t, 27.0, report.TempC)
	assert.Equal(t, 70, report.Humidity)
	assert.Equal(t, 3.1, report.WindMs)
}

func TestCurrentOpenWeatherShapedText(t *testing.T) {
	caller := &fakeCaller{result: `{"weather":[{"description":"mưa nhẹ"}],"main":{"temp":12.5,"feels_like":10,"humidity":90},"wind":{"speed":1.5},"dt":1760000000}`}

	w := NewWeather(WithCaller(caller))

	report, err := w.Current(context.Background(), "Sa Pa")
	require.NoError(t, err)

	assert.Equal(t, defaultToolName, caller.tool)
	assert.Equal(t, "mưa nhẹ", report.Description)
	assert.Equal(t, 12.5, report.TempC)
	assert.Equal(t, 90, report.Humidity)
	assert.False(t, report.ObservedAt.IsZero())
}

func TestCurrentErrors(t *testing.T) {
	w := NewWeather(WithCaller(&fakeCaller{err: errors.New("provider down")}))
	_, err := w.Current(context.Background(), "Hue")
	assert.Error(t, err)

	w = NewWeather(WithCaller(&fakeCaller{result: map[string]any{"error": "unknown station"}}))
	_, err = w.Current(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, weather.ErrStationNotFound))

	w = NewWeather(WithCaller(&fakeCaller{result: 42}))
	_, err = w.Current(context.Background(), "Hue")
	assert.Error(t, err)
}
