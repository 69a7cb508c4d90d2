package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/bookflow/generator"
)

const defaultModel = "gpt-4o-mini"

type openAIGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string, opts ...generator.GenerateOption) (string, error) {
	callOpts := generator.NewGenerateOptions(opts...)

	req := openai.ChatCompletionRequest{
		Model: g.options.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: generator.FullPrompt(g.options.PromptPrefix, prompt),
			},
		},
	}

	if callOpts.Temperature != nil {
		req.Temperature = float32(*callOpts.Temperature)
	}

	if callOpts.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	rsp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return rsp.Choices[0].Message.Content, nil
}

// NewGenerator talks to OpenAI, or to any compatible endpoint (Ollama's /v1)
// when a location is set.
func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	g := &openAIGenerator{
		options: options,
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.Location) > 0 {
		cfg.BaseURL = options.Location
	}

	g.client = openai.NewClientWithConfig(cfg)

	return g
}
