package utcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	goutcp "github.com/universal-tool-calling-protocol/go-utcp"
	getsafe "github.com/w-h-a/bookflow/util/get_safe"
	"github.com/w-h-a/bookflow/weather"
)

const defaultToolName = "weather.current"

// Caller is the part of the UTCP client this provider uses.
type Caller interface {
	CallTool(ctx context.Context, toolName string, args map[string]any) (any, error)
}

type utcpWeather struct {
	options  weather.Options
	client   Caller
	toolName string
}

func (w *utcpWeather) Current(ctx context.Context, station string) (weather.Report, error) {
	station = strings.TrimSpace(station)
	if len(station) == 0 {
		return weather.Report{}, weather.ErrStationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, w.options.Timeout)
	defer cancel()

	raw, err := w.client.CallTool(ctx, w.toolName, map[string]any{
		"station": station,
		"country": "VN",
		"units":   "metric",
		"lang":    "vi",
	})
	if err != nil {
		return weather.Report{}, fmt.Errorf("utcp weather tool failed: %w", err)
	}

	payload, ok := getsafe.Object(raw)
	if !ok {
		return weather.Report{}, fmt.Errorf("utcp weather tool returned %T", raw)
	}

	if msg := getsafe.String(payload, "error"); len(msg) > 0 {
		return weather.Report{}, fmt.Errorf("%w: %s", weather.ErrStationNotFound, msg)
	}

	return parseReport(station, payload), nil
}

// parseReport accepts the flat tool schema and the OpenWeatherMap shape.
func parseReport(station string, payload map[string]any) weather.Report {
	report := weather.Report{
		Station:     station,
		Description: getsafe.String(payload, "description"),
		TempC:       getsafe.Float(payload, "temp"),
		FeelsLikeC:  getsafe.Float(payload, "feels_like"),
		Humidity:    getsafe.Int(payload, "humidity"),
		WindMs:      getsafe.Float(payload, "wind_speed"),
	}

	if main := getsafe.Map(payload, "main"); main != nil {
		report.TempC = getsafe.Float(main, "temp")
		report.FeelsLikeC = getsafe.Float(main, "feels_like")
		report.Humidity = getsafe.Int(main, "humidity")
	}

	if wind := getsafe.Map(payload, "wind"); wind != nil {
		report.WindMs = getsafe.Float(wind, "speed")
	}

	if w := getsafe.FirstMap(payload, "weather"); w != nil && len(report.Description) == 0 {
		report.Description = getsafe.String(w, "description")
	}

	if dt := getsafe.Float(payload, "dt"); dt > 0 {
		report.ObservedAt = time.Unix(int64(dt), 0).UTC()
	}

	return report
}

func createTempConfig(addr string) (string, error) {
	type providerConfig struct {
		Type    string            `json:"provider_type"`
		Name    string            `json:"name"`
		URL     string            `json:"url"`
		Method  string            `json:"http_method"`
		Headers map[string]string `json:"headers"`
	}

	parsed, err := url.Parse(addr)
	if err != nil {
		return "", err
	}

	config := struct {
		Providers []providerConfig `json:"providers"`
	}{
		Providers: []providerConfig{
			{
				Type:   "http",
				Name:   parsed.Hostname(),
				URL:    addr,
				Method: "POST",
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}

	f, err := os.CreateTemp("", "utcp_config_*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(config); err != nil {
		return "", err
	}

	return f.Name(), nil
}

func NewWeather(opts ...weather.Option) weather.Weather {
	options := weather.NewOptions(opts...)

	w := &utcpWeather{
		options:  options,
		toolName: defaultToolName,
	}

	if name, ok := ToolNameFrom(options.Context); ok && len(name) > 0 {
		w.toolName = name
	}

	if c, ok := CallerFrom(options.Context); ok {
		w.client = c
		return w
	}

	configPath, err := createTempConfig(options.Location)
	if err != nil {
		detail := "failed to write utcp weather provider config"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}
	defer os.Remove(configPath)

	client, err := goutcp.NewUTCPClient(
		options.Context,
		&goutcp.UtcpClientConfig{
			ProvidersFilePath: configPath,
		},
		nil,
		nil,
	)
	if err != nil {
		detail := "failed to create utcp weather client"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	w.client = client

	return w
}
