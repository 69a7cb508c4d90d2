package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/bookflow/embedder"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultModel = "text-embedding-3-small"

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return nil, errors.New("nothing to embed")
	}

	if e.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.Timeout)
		defer cancel()
	}

	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.options.Model),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	return rsp.Data[0].Embedding, nil
}

// NewEmbedder uses OpenAI, or any compatible endpoint when a location is set.
func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.Location) > 0 {
		cfg.BaseURL = options.Location
	}
	cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	return &openAIEmbedder{
		options: options,
		client:  openai.NewClientWithConfig(cfg),
	}
}
