package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/bookflow/internal/logging"
	"github.com/w-h-a/bookflow/internal/providers"
	"github.com/w-h-a/bookflow/internal/service/repair"
)

var (
	cfg struct {
		LogLevel string `help:"Log level" default:"info" enum:"debug,info,warn,warning,error" env:"LOG_LEVEL"`

		// Model config
		Generator       string        `help:"Generation backend" default:"ollama" enum:"ollama,openai,anthropic,google,none" env:"GENERATOR"`
		Embedder        string        `help:"Embedding backend" default:"ollama" enum:"ollama,openai,google" env:"EMBEDDER"`
		OllamaURL       string        `help:"Base URL of the Ollama server" default:"http://127.0.0.1:11434" env:"OLLAMA_URL"`
		OllamaModel     string        `help:"Model identifier for generation" default:"qwen2.5:3b-instruct" env:"OLLAMA_MODEL"`
		OllamaEmbedding string        `help:"Model identifier for embeddings" default:"nomic-embed-text" env:"OLLAMA_EMBED_MODEL"`
		OllamaTimeout   time.Duration `help:"Timeout for one model call" default:"120s" env:"OLLAMA_TIMEOUT"`
		HostedModel     string        `help:"Generation model for hosted providers; empty uses the provider default" default:"" env:"MODEL_NAME"`
		HostedEmbedding string        `help:"Embedding model for hosted providers; empty uses the provider default" default:"" env:"EMBED_MODEL_NAME"`
		APIKey          string        `help:"API key for hosted model providers" default:"" env:"MODEL_API_KEY"`
		ModelURL        string        `help:"Base URL override for hosted model providers" default:"" env:"MODEL_URL"`

		// Store config
		DocumentStore string `help:"Document store backend" default:"postgres" enum:"postgres,qdrant,supabase" env:"DOCUMENT_STORE"`
		DocumentURL   string `help:"Document store location" default:"" env:"DOCUMENT_STORE_URL"`
		DatabaseURL   string `help:"Fallback location when no document store url is set" default:"" env:"DATABASE_URL"`
		DocumentKey   string `help:"Document store api key" default:"" env:"DOCUMENT_STORE_KEY"`
		Collection    string `help:"Document collection or table" default:"documents" env:"DOCUMENT_COLLECTION"`

		// Job config
		DryRun bool    `help:"Report violations without writing" default:"false"`
		Rate   float64 `help:"Repairs per second; 0 disables pacing" default:"2"`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	if err := logging.Setup(os.Stderr, cfg.LogLevel); err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	location := cfg.DocumentURL
	if len(location) == 0 {
		location = cfg.DatabaseURL
	}

	docs, err := providers.Storer(providers.Store{
		Provider:   cfg.DocumentStore,
		Location:   location,
		ApiKey:     cfg.DocumentKey,
		Collection: cfg.Collection,
	})
	exitOn(ctx, "failed to create document store", err)

	job := repair.New(docs, gen, emb, repair.WithDryRun(cfg.DryRun), repair.WithRate(cfg.Rate))

	report, err := job.Run(ctx)
	exitOn(ctx, "repair failed", err)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)

	if report.Failed > 0 {
		os.Exit(2)
	}
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
