package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/w-h-a/bookflow/storer"
)

type memoryStorer struct {
	options storer.Options
	records map[string]storer.Record
	mtx     sync.RWMutex
}

func (s *memoryStorer) Upsert(ctx context.Context, rec storer.Record) error {
	if len(rec.Embedding) == 0 {
		return storer.ErrMissingEmbedding
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(rec.Id) == 0 {
		rec.Id = uuid.New().String()
	}

	rec.Embedding = copyVector(rec.Embedding)
	rec.Score = 0

	s.records[rec.Id] = rec

	return nil
}

func (s *memoryStorer) Replace(ctx context.Context, id string, content string, vector []float32) error {
	if len(vector) == 0 {
		return storer.ErrMissingEmbedding
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return storer.ErrNotFound
	}

	rec.Content = content
	rec.Embedding = copyVector(vector)

	s.records[id] = rec

	return nil
}

func (s *memoryStorer) Search(ctx context.Context, vector []float32, filter storer.Filter, limit int) ([]storer.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]storer.Record, 0, len(s.records))

	for _, rec := range s.records {
		if !filter.Match(rec.Metadata) {
			continue
		}
		rec.Score = float32(storer.CosineSimilarity(vector, rec.Embedding))
		rec.Embedding = copyVector(rec.Embedding)
		candidates = append(candidates, rec)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].Id < candidates[j].Id
		}
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (s *memoryStorer) List(ctx context.Context, filter storer.Filter) ([]storer.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	records := make([]storer.Record, 0, len(s.records))
	for _, rec := range s.records {
		if !filter.Match(rec.Metadata) {
			continue
		}
		rec.Embedding = nil
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Id < records[j].Id
	})

	return records, nil
}

func (s *memoryStorer) Get(ctx context.Context, id string) (storer.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return storer.Record{}, storer.ErrNotFound
	}

	rec.Embedding = copyVector(rec.Embedding)

	return rec, nil
}

func copyVector(vector []float32) []float32 {
	if vector == nil {
		return nil
	}
	cpy := make([]float32, len(vector))
	copy(cpy, vector)
	return cpy
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	s := &memoryStorer{
		options: options,
		records: map[string]storer.Record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
