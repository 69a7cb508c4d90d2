package weather

import (
	"context"
	"time"
)

type Option func(o *Options)

type Options struct {
	Location string
	ApiKey   string
	Timeout  time.Duration
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(key string) Option {
	return func(o *Options) {
		o.ApiKey = key
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 5 * time.Second,
		Context: context.Background(),
	}

	for _, fn := range opts {
		fn(&options)
	}

	return options
}
