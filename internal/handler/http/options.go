package http

import (
	"time"

	"github.com/bluele/gcache"
)

type Option func(o *Options)

type Options struct {
	Clock      func() time.Time
	CacheClock gcache.Clock
	Dedupe     bool
}

func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

// WithCacheClock drives dedupe expiry; tests pass a gcache.FakeClock.
func WithCacheClock(clock gcache.Clock) Option {
	return func(o *Options) {
		o.CacheClock = clock
	}
}

func WithDedupe(enabled bool) Option {
	return func(o *Options) {
		o.Dedupe = enabled
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Clock:  time.Now,
		Dedupe: true,
	}

	for _, fn := range opts {
		fn(&options)
	}

	return options
}
