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

	"github.com/w-h-a/bookflow/generator"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultLocation = "http://127.0.0.1:11434"
	defaultModel    = "qwen2.5:3b-instruct"
	defaultTimeout  = 120 * time.Second
)

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

type ollamaGenerator struct {
	options generator.Options
	client  *http.Client
}

func (g *ollamaGenerator) Generate(ctx context.Context, prompt string, opts ...generator.GenerateOption) (string, error) {
	callOpts := generator.NewGenerateOptions(opts...)

	req := generateRequest{
		Model:  g.options.Model,
		Prompt: generator.FullPrompt(g.options.PromptPrefix, prompt),
		Stream: false,
	}

	if callOpts.Temperature != nil {
		req.Options = map[string]any{"temperature": *callOpts.Temperature}
	}

	if callOpts.JSON {
		req.Format = "json"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.options.Location+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	rsp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer rsp.Body.Close()

	raw, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", err
	}

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama generate: status %d: %s", rsp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("ollama generate: decode: %w", err)
	}

	if len(out.Error) > 0 {
		return "", fmt.Errorf("ollama generate: %s", out.Error)
	}

	if len(strings.TrimSpace(out.Response)) == 0 {
		return "", errors.New("no response from Ollama")
	}

	return out.Response, nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

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

	g := &ollamaGenerator{
		options: options,
		client: &http.Client{
			Timeout:   options.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	return g
}
