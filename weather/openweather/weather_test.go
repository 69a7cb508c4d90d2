package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/weather"
)

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Sa Pa,VN", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Sa Pa","dt":1760000000,"weather":[{"description":"mây rải rác"}],"main":{"temp":11.6,"feels_like":9.2,"humidity":88},"wind":{"speed":2.4}}`))
	}))
	defer srv.Close()

	w := NewWeather(weather.WithLocation(srv.URL), weather.WithApiKey("secret"))

	report, err := w.Current(context.Background(), "Sa Pa")
	require.NoError(t, err)

	assert.Equal(t, "Sa Pa", report.Station)
	assert.Equal(t, "mây rải rác", report.Description)
	assert.Equal(t, 88, report.Humidity)
	assert.Equal(t, "Thời tiết hiện tại ở Sa Pa: mây rải rác, nhiệt độ 12°C (cảm giác như 9°C), độ ẩm 88%, gió 2.4 m/s.", report.Summary())
}

func TestCurrentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	w := NewWeather(weather.WithLocation(srv.URL))

	_, err := w.Current(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, weather.ErrStationNotFound))

	_, err = w.Current(context.Background(), " ")
	assert.True(t, errors.Is(err, weather.ErrStationNotFound))
}

func TestCurrentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	w := NewWeather(weather.WithLocation(srv.URL))

	_, err := w.Current(context.Background(), "Hue")
	require.Error(t, err)
	assert.False(t, errors.Is(err, weather.ErrStationNotFound))
}
