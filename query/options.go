package query

import (
	"context"
	"time"
)

type Option func(o *Options)

type Options struct {
	Location string
	Timeout  time.Duration
	Clock    func() time.Time
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 5 * time.Second,
		Clock:   time.Now,
		Context: context.Background(),
	}

	for _, fn := range opts {
		fn(&options)
	}

	return options
}
