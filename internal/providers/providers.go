package providers

import (
	"fmt"
	"time"

	"github.com/w-h-a/bookflow/embedder"
	embedgoogle "github.com/w-h-a/bookflow/embedder/google"
	embedollama "github.com/w-h-a/bookflow/embedder/ollama"
	embedopenai "github.com/w-h-a/bookflow/embedder/openai"
	"github.com/w-h-a/bookflow/generator"
	"github.com/w-h-a/bookflow/generator/anthropic"
	gengoogle "github.com/w-h-a/bookflow/generator/google"
	genollama "github.com/w-h-a/bookflow/generator/ollama"
	genopenai "github.com/w-h-a/bookflow/generator/openai"
	"github.com/w-h-a/bookflow/session"
	sessionmemory "github.com/w-h-a/bookflow/session/memory"
	sessionredis "github.com/w-h-a/bookflow/session/redis"
	"github.com/w-h-a/bookflow/storer"
	storermemory "github.com/w-h-a/bookflow/storer/memory"
	storerpostgres "github.com/w-h-a/bookflow/storer/postgres"
	storerqdrant "github.com/w-h-a/bookflow/storer/qdrant"
	storersupabase "github.com/w-h-a/bookflow/storer/supabase"
	"github.com/w-h-a/bookflow/weather"
	"github.com/w-h-a/bookflow/weather/openweather"
	weatherutcp "github.com/w-h-a/bookflow/weather/utcp"
)

// Model configures a generation or embedding backend.
type Model struct {
	Provider string
	Location string
	ApiKey   string
	Model    string
	Timeout  time.Duration
}

type Store struct {
	Provider   string
	Location   string
	ApiKey     string
	Collection string
}

func Generator(m Model) (generator.Generator, error) {
	opts := []generator.Option{
		generator.WithLocation(m.Location),
		generator.WithApiKey(m.ApiKey),
		generator.WithModel(m.Model),
		generator.WithTimeout(m.Timeout),
	}

	switch m.Provider {
	case "ollama":
		return genollama.NewGenerator(opts...), nil
	case "openai":
		return genopenai.NewGenerator(opts...), nil
	case "anthropic":
		return anthropic.NewGenerator(opts...), nil
	case "google":
		return gengoogle.NewGenerator(opts...), nil
	case "none", "":
		return nil, nil
	}

	return nil, fmt.Errorf("unknown generator provider %q", m.Provider)
}

func Embedder(m Model) (embedder.Embedder, error) {
	opts := []embedder.Option{
		embedder.WithLocation(m.Location),
		embedder.WithApiKey(m.ApiKey),
		embedder.WithModel(m.Model),
		embedder.WithTimeout(m.Timeout),
	}

	switch m.Provider {
	case "ollama":
		return embedollama.NewEmbedder(opts...), nil
	case "openai":
		return embedopenai.NewEmbedder(opts...), nil
	case "google":
		return embedgoogle.NewEmbedder(opts...), nil
	case "none", "":
		return nil, nil
	}

	return nil, fmt.Errorf("unknown embedder provider %q", m.Provider)
}

func Storer(s Store) (storer.Storer, error) {
	opts := []storer.Option{
		storer.WithLocation(s.Location),
		storer.WithApiKey(s.ApiKey),
		storer.WithCollection(s.Collection),
	}

	switch s.Provider {
	case "postgres":
		return storerpostgres.NewStorer(opts...), nil
	case "qdrant":
		return storerqdrant.NewStorer(opts...), nil
	case "supabase":
		return storersupabase.NewStorer(opts...), nil
	case "memory":
		return storermemory.NewStorer(opts...), nil
	}

	return nil, fmt.Errorf("unknown document store %q", s.Provider)
}

func Sessions(provider, location string, ttl time.Duration, window int) (session.Store, error) {
	opts := []session.Option{
		session.WithLocation(location),
		session.WithTTL(ttl),
		session.WithWindow(window),
	}

	switch provider {
	case "memory":
		return sessionmemory.NewStore(opts...), nil
	case "redis":
		return sessionredis.NewStore(opts...), nil
	}

	return nil, fmt.Errorf("unknown session store %q", provider)
}

func Weather(provider, location, apiKey string, timeout time.Duration) (weather.Weather, error) {
	opts := []weather.Option{
		weather.WithApiKey(apiKey),
		weather.WithTimeout(timeout),
	}
	if len(location) > 0 {
		opts = append(opts, weather.WithLocation(location))
	}

	switch provider {
	case "openweather":
		return openweather.NewWeather(opts...), nil
	case "utcp":
		return weatherutcp.NewWeather(opts...), nil
	case "none", "":
		return nil, nil
	}

	return nil, fmt.Errorf("unknown weather provider %q", provider)
}
