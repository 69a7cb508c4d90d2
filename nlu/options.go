package nlu

import "time"

type Option func(o *Options)

type Options struct {
	Gazetteer     *Gazetteer
	Clock         func() time.Time
	MinConfidence float64
}

func WithGazetteer(g *Gazetteer) Option {
	return func(o *Options) {
		o.Gazetteer = g
	}
}

func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

func WithMinConfidence(c float64) Option {
	return func(o *Options) {
		o.MinConfidence = c
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Clock:         time.Now,
		MinConfidence: DefaultMinConfidence,
	}

	for _, fn := range opts {
		fn(&options)
	}

	if options.Gazetteer == nil {
		options.Gazetteer = NewGazetteer(DefaultEntries()...)
	}

	return options
}
