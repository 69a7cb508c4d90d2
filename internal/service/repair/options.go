package repair

import (
	"golang.org/x/time/rate"
)

type Option func(o *Options)

type Options struct {
	DryRun  bool
	Limiter *rate.Limiter
}

// WithDryRun reports violations without writing anything.
func WithDryRun(dry bool) Option {
	return func(o *Options) {
		o.DryRun = dry
	}
}

// WithRate paces generation calls to n per second.
func WithRate(n float64) Option {
	return func(o *Options) {
		if n <= 0 {
			o.Limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		o.Limiter = rate.NewLimiter(rate.Limit(n), 1)
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Limiter: rate.NewLimiter(rate.Limit(2), 1),
	}

	for _, fn := range opts {
		fn(&options)
	}

	return options
}
