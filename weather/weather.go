package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrStationNotFound = errors.New("weather station not found")

// Report is the current weather at a station.
type Report struct {
	Station     string    `json:"station"`
	Description string    `json:"description"`
	TempC       float64   `json:"temp_c"`
	FeelsLikeC  float64   `json:"feels_like_c"`
	Humidity    int       `json:"humidity"`
	WindMs      float64   `json:"wind_ms"`
	ObservedAt  time.Time `json:"observed_at"`
}

func (r Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Thời tiết hiện tại ở %s", r.Station)
	if len(r.Description) > 0 {
		fmt.Fprintf(&b, ": %s", r.Description)
	}
	fmt.Fprintf(&b, ", nhiệt độ %d°C", int(math.Round(r.TempC)))
	if r.FeelsLikeC != 0 && math.Round(r.FeelsLikeC) != math.Round(r.TempC) {
		fmt.Fprintf(&b, " (cảm giác như %d°C)", int(math.Round(r.FeelsLikeC)))
	}
	if r.Humidity > 0 {
		fmt.Fprintf(&b, ", độ ẩm %d%%", r.Humidity)
	}
	if r.WindMs > 0 {
		fmt.Fprintf(&b, ", gió %.1f m/s", r.WindMs)
	}
	b.WriteString(".")

	return b.String()
}

type Weather interface {
	Current(ctx context.Context, station string) (Report, error)
}
