package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/w-h-a/bookflow/embedder"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultLocation = "http://127.0.0.1:11434"
	defaultModel    = "nomic-embed-text"
	defaultTimeout  = 10 * time.Second
)

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error"`
}

type ollamaEmbedder struct {
	options embedder.Options
	client  *http.Client
}

func (e *ollamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.options.Model, Prompt: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.options.Location+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	rsp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	raw, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, err
	}

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama embeddings: status %d: %s", rsp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out embeddingResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("ollama embeddings: decode: %w", err)
	}

	if len(out.Error) > 0 {
		return nil, fmt.Errorf("ollama embeddings: %s", out.Error)
	}

	if len(out.Embedding) == 0 {
		return nil, errors.New("no embedding from Ollama")
	}

	return out.Embedding, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}
	options.Location = strings.TrimRight(options.Location, "/")

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}

	return &ollamaEmbedder{
		options: options,
		client: &http.Client{
			Timeout:   options.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}
