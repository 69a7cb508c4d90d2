package generator

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Location     string
	ApiKey       string
	Model        string
	PromptPrefix string
	Timeout      time.Duration
	Context      context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithPromptPrefix(prefix string) Option {
	return func(o *Options) {
		o.PromptPrefix = prefix
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// GenerateOption tunes a single Generate call.
type GenerateOption func(*GenerateOptions)

type GenerateOptions struct {
	Temperature *float64
	JSON        bool
}

func WithTemperature(t float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = &t
	}
}

// WithJSON asks the backend to constrain its output to a JSON object.
func WithJSON() GenerateOption {
	return func(o *GenerateOptions) {
		o.JSON = true
	}
}

func NewGenerateOptions(opts ...GenerateOption) GenerateOptions {
	options := GenerateOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func FullPrompt(prefix, prompt string) string {
	if len(prefix) > 0 {
		return prefix + "\n" + prompt
	}
	return prompt
}
