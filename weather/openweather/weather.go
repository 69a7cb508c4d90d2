package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/w-h-a/bookflow/weather"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultLocation = "https://api.openweathermap.org"

type currentResponse struct {
	Name    string `json:"name"`
	Dt      int64  `json:"dt"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Message string `json:"message"`
}

type openWeather struct {
	options weather.Options
	client  *http.Client
}

func (w *openWeather) Current(ctx context.Context, station string) (weather.Report, error) {
	station = strings.TrimSpace(station)
	if len(station) == 0 {
		return weather.Report{}, weather.ErrStationNotFound
	}

	q := url.Values{}
	q.Set("q", station+",VN")
	q.Set("appid", w.options.ApiKey)
	q.Set("units", "metric")
	q.Set("lang", "vi")

	endpoint := strings.TrimRight(w.options.Location, "/") + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.Report{}, err
	}

	rsp, err := w.client.Do(req)
	if err != nil {
		return weather.Report{}, err
	}
	defer rsp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(rsp.Body, 1<<20))
	if err != nil {
		return weather.Report{}, err
	}

	if rsp.StatusCode == http.StatusNotFound {
		return weather.Report{}, fmt.Errorf("%w: %s", weather.ErrStationNotFound, station)
	}

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return weather.Report{}, fmt.Errorf("openweather returned %d: %s", rsp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out currentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return weather.Report{}, fmt.Errorf("decode openweather response: %w", err)
	}

	report := weather.Report{
		Station:    station,
		TempC:      out.Main.Temp,
		FeelsLikeC: out.Main.FeelsLike,
		Humidity:   out.Main.Humidity,
		WindMs:     out.Wind.Speed,
		ObservedAt: time.Unix(out.Dt, 0).UTC(),
	}

	if len(out.Weather) > 0 {
		report.Description = out.Weather[0].Description
	}

	return report, nil
}

func NewWeather(opts ...weather.Option) weather.Weather {
	options := weather.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	return &openWeather{
		options: options,
		client: &http.Client{
			Timeout:   options.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}
