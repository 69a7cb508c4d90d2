package generator

import "context"

type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
}
