package utcp

import (
	"context"

	"github.com/w-h-a/bookflow/weather"
)

type toolNameKey struct{}

// WithToolName names the remote tool that reports current weather.
func WithToolName(name string) weather.Option {
	return func(o *weather.Options) {
		o.Context = context.WithValue(o.Context, toolNameKey{}, name)
	}
}

func ToolNameFrom(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(toolNameKey{}).(string)
	return name, ok
}

type callerKey struct{}

// WithCaller injects an existing tool client instead of dialing Location.
func WithCaller(c Caller) weather.Option {
	return func(o *weather.Options) {
		o.Context = context.WithValue(o.Context, callerKey{}, c)
	}
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
