package storer

import "context"

type Option func(*Options)

type Options struct {
	Location   string
	ApiKey     string
	Collection string
	Context    context.Context
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

// WithCollection names the table or collection holding documents.
func WithCollection(name string) Option {
	return func(o *Options) {
		o.Collection = name
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Collection: "documents",
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
