package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/w-h-a/bookflow/storer"
)

const (
	defaultPort      = 6334
	defaultListLimit = 10000
)

type qdrantStorer struct {
	options storer.Options
	client  *qdrant.Client
}

func (q *qdrantStorer) Upsert(ctx context.Context, rec storer.Record) error {
	if len(rec.Embedding) == 0 {
		return storer.ErrMissingEmbedding
	}

	if len(rec.Id) == 0 {
		rec.Id = uuid.New().String()
	}

	return q.write(ctx, rec)
}

func (q *qdrantStorer) Replace(ctx context.Context, id string, content string, vector []float32) error {
	if len(vector) == 0 {
		return storer.ErrMissingEmbedding
	}

	rec, err := q.Get(ctx, id)
	if err != nil {
		return err
	}

	rec.Content = content
	rec.Embedding = vector

	// a point upsert swaps payload and vector together
	return q.write(ctx, rec)
}

func (q *qdrantStorer) write(ctx context.Context, rec storer.Record) error {
	wait := true

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.options.Collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(pointId(rec.Id)),
				Vectors: qdrant.NewVectors(rec.Embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"doc_id":   rec.Id,
					"content":  rec.Content,
					"name":     rec.Metadata.Name,
					"province": rec.Metadata.Province,
					"type":     rec.Metadata.Type,
				}),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil
}

func (q *qdrantStorer) Search(ctx context.Context, vector []float32, filter storer.Filter, limit int) ([]storer.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	l := uint64(limit)

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.options.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &l,
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	records := make([]storer.Record, 0, len(points))
	for _, point := range points {
		rec := fromPayload(point.Payload)
		if len(rec.Id) == 0 {
			rec.Id = point.GetId().GetUuid()
		}
		rec.Score = point.Score
		records = append(records, rec)
	}

	return records, nil
}

func (q *qdrantStorer) List(ctx context.Context, filter storer.Filter) ([]storer.Record, error) {
	l := uint32(defaultListLimit)

	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.options.Collection,
		Filter:         buildFilter(filter),
		Limit:          &l,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant scroll failed: %w", err)
	}

	records := make([]storer.Record, 0, len(points))
	for _, point := range points {
		rec := fromPayload(point.Payload)
		if len(rec.Id) == 0 {
			rec.Id = point.GetId().GetUuid()
		}
		records = append(records, rec)
	}

	return records, nil
}

func (q *qdrantStorer) Get(ctx context.Context, id string) (storer.Record, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.options.Collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(pointId(id))},
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return storer.Record{}, fmt.Errorf("qdrant get failed: %w", err)
	}

	if len(points) == 0 {
		return storer.Record{}, storer.ErrNotFound
	}

	rec := fromPayload(points[0].Payload)
	rec.Id = id
	rec.Embedding = points[0].GetVectors().GetVector().GetData()

	return rec, nil
}

func buildFilter(filter storer.Filter) *qdrant.Filter {
	var conditions []*qdrant.Condition

	if len(filter.Province) > 0 {
		conditions = append(conditions, keywordCondition("province", filter.Province))
	}

	if len(filter.Type) > 0 {
		conditions = append(conditions, keywordCondition("type", filter.Type))
	}

	if len(conditions) == 0 {
		return nil
	}

	return &qdrant.Filter{Must: conditions}
}

func keywordCondition(key, value string) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key:   key,
				Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: value}},
			},
		},
	}
}

func fromPayload(payload map[string]*qdrant.Value) storer.Record {
	return storer.Record{
		Id:      payload["doc_id"].GetStringValue(),
		Content: payload["content"].GetStringValue(),
		Metadata: storer.Metadata{
			Name:     payload["name"].GetStringValue(),
			Province: payload["province"].GetStringValue(),
			Type:     payload["type"].GetStringValue(),
		},
	}
}

// pointId maps a document id onto the uuid space Qdrant accepts.
func pointId(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("bookflow/documents/"+id)).String()
}

func parseLocation(loc string) (string, int, bool, error) {
	if !strings.HasPrefix(loc, "http://") && !strings.HasPrefix(loc, "https://") {
		loc = "http://" + loc
	}

	u, err := url.Parse(loc)
	if err != nil {
		return "", 0, false, err
	}

	port := defaultPort
	if len(u.Port()) > 0 {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return "", 0, false, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	return u.Hostname(), port, u.Scheme == "https", nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	q := &qdrantStorer{
		options: options,
	}

	host, port, useTLS, err := parseLocation(options.Location)
	if err != nil {
		detail := "failed to parse qdrant location"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: options.ApiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		detail := "failed to create qdrant document storer"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	q.client = client

	return q
}
