package google

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/bookflow/generator"
	genaiopt "google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

type googleGenerator struct {
	options generator.Options
	client  *genai.Client
}

func (g *googleGenerator) Generate(ctx context.Context, prompt string, opts ...generator.GenerateOption) (string, error) {
	callOpts := generator.NewGenerateOptions(opts...)

	model := g.client.GenerativeModel(g.options.Model)

	if callOpts.Temperature != nil {
		model.SetTemperature(float32(*callOpts.Temperature))
	}

	if callOpts.JSON {
		model.ResponseMIMEType = "application/json"
	}

	rsp, err := model.GenerateContent(ctx, genai.Text(generator.FullPrompt(g.options.PromptPrefix, prompt)))
	if err != nil {
		return "", err
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Google")
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String(), nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	g := &googleGenerator{
		options: options,
	}

	client, err := genai.NewClient(
		options.Context,
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		detail := "failed to create google generator client"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	g.client = client

	return g
}
