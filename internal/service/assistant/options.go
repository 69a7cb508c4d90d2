package assistant

import (
	"time"

	"github.com/w-h-a/bookflow/generator"
	"github.com/w-h-a/bookflow/weather"
)

type Option func(o *Options)

type Options struct {
	Generator   generator.Generator
	Weather     weather.Weather
	TurnTimeout time.Duration
	TurnWindow  int
	Clock       func() time.Time
}

// WithGenerator enables grounded summaries, reranking and free chat.
func WithGenerator(g generator.Generator) Option {
	return func(o *Options) {
		o.Generator = g
	}
}

func WithWeather(w weather.Weather) Option {
	return func(o *Options) {
		o.Weather = w
	}
}

func WithTurnTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.TurnTimeout = d
	}
}

func WithTurnWindow(n int) Option {
	return func(o *Options) {
		o.TurnWindow = n
	}
}

func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TurnTimeout: 45 * time.Second,
		TurnWindow:  6,
		Clock:       time.Now,
	}

	for _, fn := range opts {
		fn(&options)
	}

	return options
}
