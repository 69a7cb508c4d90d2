package session

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Location string
	TTL      time.Duration
	Window   int
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

// WithTTL sets the sliding inactivity timeout.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

// WithWindow bounds the stored turn history.
func WithWindow(n int) Option {
	return func(o *Options) {
		o.Window = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TTL:     30 * time.Minute,
		Window:  6,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
