package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	handler "github.com/w-h-a/bookflow/internal/handler/http"
	"github.com/w-h-a/bookflow/internal/logging"
	"github.com/w-h-a/bookflow/internal/providers"
	"github.com/w-h-a/bookflow/internal/service/assistant"
	"github.com/w-h-a/bookflow/internal/service/retrieval"
	"github.com/w-h-a/bookflow/nlu"
	"github.com/w-h-a/bookflow/query"
	"github.com/w-h-a/bookflow/query/postgres"
	"github.com/w-h-a/bookflow/server"
	httpserver "github.com/w-h-a/bookflow/server/http"
	"github.com/w-h-a/bookflow/storer"
)

var (
	cfg struct {
		// Server config
		Address  string `help:"Listen address" default:":8080" env:"ADDRESS"`
		LogLevel string `help:"Log level" default:"info" enum:"debug,info,warn,warning,error" env:"LOG_LEVEL"`

		// Generation and embedding config
		Generator       string        `help:"Generation backend" default:"ollama" enum:"ollama,openai,anthropic,google,none" env:"GENERATOR"`
		Embedder        string        `help:"Embedding backend" default:"ollama" enum:"ollama,openai,google,none" env:"EMBEDDER"`
		OllamaURL       string        `help:"Base URL of the Ollama server" default:"http://127.0.0.1:11434" env:"OLLAMA_URL"`
		OllamaModel     string        `help:"Model identifier for generation" default:"qwen2.5:3b-instruct" env:"OLLAMA_MODEL"`
		OllamaEmbedding string        `help:"Model identifier for embeddings" default:"nomic-embed-text" env:"OLLAMA_EMBED_MODEL"`
		OllamaTimeout   time.Duration `help:"Timeout for one generation call" default:"120s" env:"OLLAMA_TIMEOUT"`
		HostedModel     string        `help:"Generation model for hosted providers; empty uses the provider default" default:"" env:"MODEL_NAME"`
		HostedEmbedding string        `help:"Embedding model for hosted providers; empty uses the provider default" default:"" env:"EMBED_MODEL_NAME"`
		APIKey          string        `help:"API key for hosted model providers" default:"" env:"MODEL_API_KEY"`
		ModelURL        string        `help:"Base URL override for hosted model providers" default:"" env:"MODEL_URL"`

		// Store config
		DatabaseURL   string        `help:"Booking database connection string" default:"" env:"DATABASE_URL"`
		DocumentStore string        `help:"Document store backend" default:"postgres" enum:"postgres,qdrant,supabase,memory" env:"DOCUMENT_STORE"`
		DocumentURL   string        `help:"Document store location; defaults to the database url" default:"" env:"DOCUMENT_STORE_URL"`
		DocumentKey   string        `help:"Document store api key" default:"" env:"DOCUMENT_STORE_KEY"`
		Collection    string        `help:"Document collection or table" default:"documents" env:"DOCUMENT_COLLECTION"`
		SessionStore  string        `help:"Session context backend" default:"memory" enum:"memory,redis" env:"SESSION_STORE"`
		RedisURL      string        `help:"Redis url for the session store" default:"redis://localhost:6379/0" env:"REDIS_URL"`
		SessionTTL    time.Duration `help:"Sliding session inactivity timeout" default:"30m" env:"SESSION_TTL"`

		// Weather config
		WeatherProvider string `help:"Weather backend" default:"none" enum:"none,openweather,utcp" env:"WEATHER_PROVIDER"`
		WeatherURL      string `help:"Weather backend location" default:"" env:"WEATHER_URL"`
		WeatherKey      string `help:"OpenWeatherMap api key" default:"" env:"OPENWEATHER_API_KEY"`

		// Assistant config
		TurnTimeout time.Duration `help:"Upper bound on one chat turn" default:"45s" env:"TURN_TIMEOUT"`
		TurnWindow  int           `help:"Turns kept per session" default:"6" env:"TURN_WINDOW"`
		MinScore    float64       `help:"Minimum vector similarity" default:"0.12" env:"MIN_SCORE"`

		// HTTP config
		AuthTokens      string        `help:"Comma separated bearer tokens; empty accepts any bearer" default:"" env:"AUTH_TOKENS"`
		RateLimitWindow time.Duration `help:"Rate limit window" default:"60s" env:"RATE_LIMIT_WINDOW"`
		RateLimitMax    int           `help:"Requests per window per caller" default:"100" env:"RATE_LIMIT_MAX"`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	if err := logging.Setup(os.Stdout, cfg.LogLevel); err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create models
	gen, err := providers.Generator(providers.Model{
		Provider: cfg.Generator,
		Location: modelLocation(cfg.Generator),
		ApiKey:   cfg.APIKey,
		Model:    modelName(cfg.Generator, cfg.OllamaModel, cfg.HostedModel),
		Timeout:  cfg.OllamaTimeout,
	})
	exitOn(ctx, "failed to create generator", err)

	emb, err := providers.Embedder(providers.Model{
		Provider: cfg.Embedder,
		Location: modelLocation(cfg.Embedder),
		ApiKey:   cfg.APIKey,
		Model:    modelName(cfg.Embedder, cfg.OllamaEmbedding, cfg.HostedEmbedding),
		Timeout:  cfg.OllamaTimeout,
	})
	exitOn(ctx, "failed to create embedder", err)

	// Create stores
	documentURL := cfg.DocumentURL
	if len(documentURL) == 0 {
		documentURL = cfg.DatabaseURL
	}

	docs, err := providers.Storer(providers.Store{
		Provider:   cfg.DocumentStore,
		Location:   documentURL,
		ApiKey:     cfg.DocumentKey,
		Collection: cfg.Collection,
	})
	exitOn(ctx, "failed to create document store", err)

	sessions, err := providers.Sessions(cfg.SessionStore, cfg.RedisURL, cfg.SessionTTL, cfg.TurnWindow)
	exitOn(ctx, "failed to create session store", err)
	defer sessions.Close()

	var querier query.Querier
	if len(cfg.DatabaseURL) > 0 {
		querier = postgres.NewQuerier(query.WithLocation(cfg.DatabaseURL))
	} else {
		slog.WarnContext(ctx, "no database url configured, structured queries disabled")
	}

	w, err := providers.Weather(cfg.WeatherProvider, cfg.WeatherURL, cfg.WeatherKey, 5*time.Second)
	exitOn(ctx, "failed to create weather provider", err)

	// Create assistant
	opts := []assistant.Option{
		assistant.WithTurnTimeout(cfg.TurnTimeout),
		assistant.WithTurnWindow(cfg.TurnWindow),
	}
	if gen != nil {
		opts = append(opts, assistant.WithGenerator(gen))
	}
	if w != nil {
		opts = append(opts, assistant.WithWeather(w))
	}

	bot := assistant.New(
		nlu.NewClassifier(nlu.WithGazetteer(gazetteer(ctx, docs))),
		sessions,
		querier,
		retrieval.New(emb, docs, cfg.MinScore),
		opts...,
	)

	// Create server
	srv := httpserver.NewServer(
		server.WithAddress(cfg.Address),
		server.WithWriteTimeout(cfg.TurnTimeout+15*time.Second),
		httpserver.WithMiddleware(
			handler.Recover,
			handler.RequestId,
			handler.Auth(strings.Split(cfg.AuthTokens, ","), "/healthz"),
			handler.RateLimit(cfg.RateLimitWindow, cfg.RateLimitMax),
		),
	)

	handler.Register(srv, handler.NewAIHandler(bot, catalogQuerier(querier)))

	if err := srv.Start(); err != nil {
		exitOn(ctx, "failed to start server", err)
	}

	select {
	case <-ctx.Done():
	case err := <-srv.Errors():
		slog.ErrorContext(ctx, "server failed", "error", err)
	}

	if err := srv.Stop(); err != nil {
		slog.ErrorContext(ctx, "failed to stop server", "error", err)
	}

	slog.InfoContext(ctx, "server stopped")
}

// catalogQuerier serves the catalog endpoints without a database; every
// call fails as an unknown function.
func catalogQuerier(q query.Querier) query.Querier {
	if q != nil {
		return q
	}
	return query.NewCatalog()
}

// gazetteer adds the names of stored documents to the built-in entries.
func gazetteer(ctx context.Context, docs storer.Storer) *nlu.Gazetteer {
	g := nlu.NewGazetteer(nlu.DefaultEntries()...)

	recs, err := docs.List(ctx, storer.Filter{})
	if err != nil {
		slog.WarnContext(ctx, "failed to list documents for the gazetteer", "error", err)
		return g
	}

	entries := make([]nlu.Entry, 0, len(recs))
	for _, rec := range recs {
		if storer.ViolatesLanguagePolicy(rec.Metadata.Name) {
			continue
		}
		kind := nlu.KindPlace
		if rec.Metadata.Type == storer.TypeDish {
			kind = nlu.KindDish
		}
		entries = append(entries, nlu.Entry{Name: rec.Metadata.Name, Kind: kind, Province: rec.Metadata.Province})
	}

	ext := g.Extend(entries...)
	slog.InfoContext(ctx, "gazetteer ready", "entries", len(ext.Entries()))

	return ext
}

func modelName(provider, ollama, hosted string) string {
	if provider == "ollama" {
		return ollama
	}
	return hosted
}

func modelLocation(provider string) string {
	if provider == "ollama" {
		return cfg.OllamaURL
	}
	return cfg.ModelURL
}

func exitOn(ctx context.Context, detail string, err error) {
	if err == nil {
		return
	}
	slog.ErrorContext(ctx, detail, "error", err)
	os.Exit(1)
}
