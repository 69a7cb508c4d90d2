package google

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/bookflow/embedder"
	genaiopt "google.golang.org/api/option"
)

const defaultModel = "text-embedding-004"

type embedFunc func(ctx context.Context, parts ...genai.Part) (*genai.EmbedContentResponse, error)

type googleEmbedder struct {
	options embedder.Options
	embed   embedFunc
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return nil, errors.New("nothing to embed")
	}

	if e.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.Timeout)
		defer cancel()
	}

	rsp, err := e.embed(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, errors.New("no embedding from Gemini")
	}

	return rsp.Embedding.Values, nil
}

// NewEmbedder embeds with Gemini. Queries and stored documents share the
// model, so the task type is left unspecified.
func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	clientOpts := []genaiopt.ClientOption{genaiopt.WithAPIKey(options.ApiKey)}
	if len(options.Location) > 0 {
		clientOpts = append(clientOpts, genaiopt.WithEndpoint(options.Location))
	}

	client, err := genai.NewClient(options.Context, clientOpts...)
	if err != nil {
		detail := "failed to create google embedder client"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	return &googleEmbedder{
		options: options,
		embed:   client.EmbeddingModel(options.Model).EmbedContent,
	}
}
