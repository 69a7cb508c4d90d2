package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/bookflow/embedder"
	"github.com/w-h-a/bookflow/nlu"
	"github.com/w-h-a/bookflow/storer"
)

var (
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
	ErrSearchFailed         = errors.New("document search failed")
)

const (
	ModeVector  = "vector"
	ModeKeyword = "keyword"
)

const (
	DefaultMinScore = 0.12
	defaultLimit    = 5
	diversity       = 0.7
)

type Result struct {
	Records  []storer.Record
	Mode     string
	Excluded []string
}

type Service struct {
	embedder embedder.Embedder
	storer   storer.Storer
	minScore float32
}

// Search embeds query and ranks documents by similarity. When the embedder
// or the vector backend fails it degrades to accent-insensitive keyword
// scoring; only a failure of both returns an error.
func (s *Service) Search(ctx context.Context, query string, filter storer.Filter, k int) (Result, error) {
	if k < 1 {
		k = defaultLimit
	}

	vector, err := s.embed(ctx, query)
	if err == nil {
		var recs []storer.Record
		recs, err = s.storer.Search(ctx, vector, filter, k*2)
		if err == nil {
			res := s.vectorResult(ctx, recs, k)
			if len(res.Records) > 0 {
				return res, nil
			}
			kw, kwErr := s.keyword(ctx, query, filter, k)
			if kwErr != nil || len(kw.Records) == 0 {
				return res, nil
			}
			return kw, nil
		}
		slog.WarnContext(ctx, "vector search failed, using keyword fallback", "error", err)
	} else {
		slog.WarnContext(ctx, "embedding failed, using keyword fallback", "error", err)
	}

	res, kwErr := s.keyword(ctx, query, filter, k)
	if kwErr != nil {
		return Result{}, goerr.Wrap(ErrSearchFailed, "vector and keyword search failed",
			goerr.V("vector_error", err.Error()),
			goerr.V("keyword_error", kwErr.Error()),
		)
	}

	return res, nil
}

// Lookup finds the document of a named entity without touching the
// embedder.
func (s *Service) Lookup(ctx context.Context, name string, filter storer.Filter) (storer.Record, bool, error) {
	target := nlu.Normalize(name)
	if len(target) == 0 {
		return storer.Record{}, false, nil
	}

	recs, err := s.storer.List(ctx, filter)
	if err != nil {
		return storer.Record{}, false, goerr.Wrap(ErrSearchFailed, "list documents", goerr.V("name", name), goerr.V("cause", err.Error()))
	}

	recs = s.exclude(ctx, recs)

	var partial *storer.Record
	for i, rec := range recs {
		got := nlu.Normalize(rec.Metadata.Name)
		if got == target {
			return rec, true, nil
		}
		if partial == nil && len(got) > 0 && (strings.Contains(got, target) || strings.Contains(target, got)) {
			partial = &recs[i]
		}
	}

	if partial != nil {
		return *partial, true, nil
	}

	return storer.Record{}, false, nil
}

// Diversify spreads a multi-document answer across distinct entries.
func (s *Service) Diversify(records []storer.Record, k int) []storer.Record {
	return storer.Diversify(records, k, diversity)
}

func (s *Service) embed(ctx context.Context, query string) ([]float32, error) {
	if s.embedder == nil {
		return nil, ErrEmbeddingUnavailable
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(ErrEmbeddingUnavailable, "embed query", goerr.V("cause", err.Error()))
	}

	if len(vector) == 0 {
		return nil, ErrEmbeddingUnavailable
	}

	return vector, nil
}

func (s *Service) vectorResult(ctx context.Context, recs []storer.Record, k int) Result {
	scored := make([]storer.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.Score < s.minScore {
			continue
		}
		scored = append(scored, rec)
	}

	kept, dropped := storer.ExcludeViolations(scored)
	s.logExcluded(ctx, dropped)

	if len(kept) > k {
		kept = kept[:k]
	}

	return Result{Records: kept, Mode: ModeVector, Excluded: dropped}
}

func (s *Service) keyword(ctx context.Context, query string, filter storer.Filter, k int) (Result, error) {
	recs, err := s.storer.List(ctx, filter)
	if err != nil {
		return Result{}, err
	}

	kept, dropped := storer.ExcludeViolations(recs)
	s.logExcluded(ctx, dropped)

	normalized := nlu.Normalize(query)
	terms := keywordTerms(normalized)

	var hits []storer.Record
	for _, rec := range kept {
		score := keywordScore(normalized, terms, rec)
		if score <= 0 {
			continue
		}
		rec.Score = score
		rec.Embedding = nil
		hits = append(hits, rec)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score == hits[j].Score {
			return hits[i].Id < hits[j].Id
		}
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return Result{Records: hits, Mode: ModeKeyword, Excluded: dropped}, nil
}

func (s *Service) exclude(ctx context.Context, recs []storer.Record) []storer.Record {
	kept, dropped := storer.ExcludeViolations(recs)
	s.logExcluded(ctx, dropped)
	return kept
}

func (s *Service) logExcluded(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	slog.WarnContext(ctx, "excluded documents pending repair", "error", storer.ErrPolicyViolation, "ids", ids)
}

func New(e embedder.Embedder, st storer.Storer, minScore float64) *Service {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	return &Service{
		embedder: e,
		storer:   st,
		minScore: float32(minScore),
	}
}
