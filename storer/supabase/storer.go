package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
	"github.com/w-h-a/bookflow/storer"
)

const matchFunction = "match_documents"

type documentRow struct {
	Id        any             `json:"id"`
	Content   string          `json:"content"`
	Metadata  storer.Metadata `json:"metadata"`
	Embedding any             `json:"embedding,omitempty"`
}

type matchRow struct {
	Id         any             `json:"id"`
	Content    string          `json:"content"`
	Metadata   storer.Metadata `json:"metadata"`
	Similarity float32         `json:"similarity"`
}

type supabaseStorer struct {
	options storer.Options
	client  *supabase.Client
}

func (s *supabaseStorer) Upsert(ctx context.Context, rec storer.Record) error {
	if len(rec.Embedding) == 0 {
		return storer.ErrMissingEmbedding
	}

	if len(rec.Id) == 0 {
		rec.Id = uuid.New().String()
	}

	row := documentRow{
		Id:        rec.Id,
		Content:   rec.Content,
		Metadata:  rec.Metadata,
		Embedding: rec.Embedding,
	}

	_, _, err := s.client.From(s.options.Collection).
		Upsert(row, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

func (s *supabaseStorer) Replace(ctx context.Context, id string, content string, vector []float32) error {
	if len(vector) == 0 {
		return storer.ErrMissingEmbedding
	}

	var updated []documentRow

	// one PATCH carries both columns
	_, err := s.client.From(s.options.Collection).
		Update(map[string]any{"content": content, "embedding": vector}, "representation", "").
		Eq("id", id).
		ExecuteTo(&updated)
	if err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}

	if len(updated) == 0 {
		return storer.ErrNotFound
	}

	return nil
}

func (s *supabaseStorer) Search(ctx context.Context, vector []float32, filter storer.Filter, limit int) ([]storer.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	raw := s.client.Rpc(matchFunction, "", map[string]any{
		"query_embedding": vector,
		"match_count":     limit,
		"filter_province": filter.Province,
		"filter_type":     filter.Type,
	})

	var rows []matchRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("failed to search documents: %s", strings.TrimSpace(raw))
	}

	records := make([]storer.Record, 0, len(rows))
	for _, row := range rows {
		if !filter.Match(row.Metadata) {
			continue
		}
		records = append(records, storer.Record{
			Id:       idString(row.Id),
			Content:  row.Content,
			Metadata: row.Metadata,
			Score:    row.Similarity,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})

	return records, nil
}

func (s *supabaseStorer) List(ctx context.Context, filter storer.Filter) ([]storer.Record, error) {
	query := s.client.From(s.options.Collection).
		Select("id,content,metadata", "", false)

	if len(filter.Province) > 0 {
		query = query.Eq("metadata->>province", filter.Province)
	}

	if len(filter.Type) > 0 {
		query = query.Eq("metadata->>type", filter.Type)
	}

	var rows []documentRow
	if _, err := query.ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	records := make([]storer.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, storer.Record{
			Id:       idString(row.Id),
			Content:  row.Content,
			Metadata: row.Metadata,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Id < records[j].Id
	})

	return records, nil
}

func (s *supabaseStorer) Get(ctx context.Context, id string) (storer.Record, error) {
	var rows []documentRow

	_, err := s.client.From(s.options.Collection).
		Select("id,content,metadata,embedding", "", false).
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return storer.Record{}, fmt.Errorf("failed to get document: %w", err)
	}

	if len(rows) == 0 {
		return storer.Record{}, storer.ErrNotFound
	}

	vec, err := parseVector(rows[0].Embedding)
	if err != nil {
		return storer.Record{}, err
	}

	return storer.Record{
		Id:        idString(rows[0].Id),
		Content:   rows[0].Content,
		Metadata:  rows[0].Metadata,
		Embedding: vec,
	}, nil
}

func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprint(id)
	}
}

// parseVector accepts the pgvector text form ("[1,2,3]") PostgREST returns
// as well as a plain JSON array.
func parseVector(v any) ([]float32, error) {
	var raw []byte

	switch vec := v.(type) {
	case nil:
		return nil, nil
	case string:
		raw = []byte(vec)
	default:
		b, err := json.Marshal(vec)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	var out []float32
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}

	return out, nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	s := &supabaseStorer{
		options: options,
	}

	client, err := supabase.NewClient(options.Location, options.ApiKey, nil)
	if err != nil {
		detail := "failed to create supabase document storer"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	s.client = client

	return s
}
