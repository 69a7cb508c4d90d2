package storer

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrMissingEmbedding = errors.New("document embedding is required")
	ErrPolicyViolation  = errors.New("document violates language policy")
)

// Storer holds place and dish documents. Replace must write content and
// embedding in a single atomic operation.
type Storer interface {
	Upsert(ctx context.Context, rec Record) error
	Replace(ctx context.Context, id string, content string, vector []float32) error
	Search(ctx context.Context, vector []float32, filter Filter, limit int) ([]Record, error)
	List(ctx context.Context, filter Filter) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
}
