package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/bookflow/generator"
	"github.com/w-h-a/bookflow/internal/service/retrieval"
	"github.com/w-h-a/bookflow/nlu"
	"github.com/w-h-a/bookflow/query"
	"github.com/w-h-a/bookflow/session"
	"github.com/w-h-a/bookflow/storer"
)

var ErrUnavailable = errors.New("assistant unavailable")

const (
	placeInfoK = 3
	chatK      = 3
)

// outcome is what a turn produced plus what it resolved explicitly.
type outcome struct {
	reply      Reply
	entityName string
	entityType string
}

type Service struct {
	classifier *nlu.Classifier
	sessions   session.Store
	querier    query.Querier
	retrieval  *retrieval.Service
	options    Options
}

// Respond runs one turn. The only error it returns is ErrUnavailable, when
// the session store cannot be read; every other failure degrades into a
// reply.
func (s *Service) Respond(ctx context.Context, sessionId string, message string) (reply Reply, err error) {
	t := newTurn(sessionId, message, s.options.Clock())

	// downstream calls finish even if the caller goes away
	work, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.options.TurnTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "turn panicked", "session_id", sessionId, "state", t.state, "panic", fmt.Sprint(r))
			t.advance(ctx, StateFailed)
			reply = Reply{Summary: ApologyMessage, Source: SourceFallback, Intent: nlu.IntentChat}
			err = nil
		}
	}()

	sc, err := s.sessions.Get(work, sessionId)
	if err != nil {
		t.advance(ctx, StateFailed)
		slog.ErrorContext(ctx, "failed to read session context", "session_id", sessionId, "error", err)
		return Reply{Summary: UnavailableMessage, Source: SourceFallback}, goerr.Wrap(ErrUnavailable, "session store", goerr.V("session_id", sessionId), goerr.V("cause", err.Error()))
	}

	res := s.classifier.Classify(message, sc)
	t.advance(ctx, StateClassified)

	out := s.execute(work, t, res)
	out.reply.Intent = res.Intent
	t.advance(ctx, StateComposed)

	updated, err := s.sessions.Update(work, sessionId, func(c *session.Context) error {
		merge(c, res, out, message, s.options.Clock(), s.options.TurnWindow)
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to update session context", "session_id", sessionId, "error", err)
		updated = sc.Clone()
		merge(&updated, res, out, message, s.options.Clock(), s.options.TurnWindow)
	} else {
		t.advance(ctx, StateContextUpdated)
	}

	out.reply.NextContext = &NextContext{
		City:           updated.City,
		LastEntityName: updated.LastEntityName,
	}

	t.advance(ctx, StateResponded)

	slog.InfoContext(ctx, "turn responded",
		"session_id", sessionId,
		"intent", res.Intent,
		"confidence", res.Confidence,
		"source", out.reply.Source,
		"function", out.reply.Function,
		"latency_ms", s.options.Clock().Sub(t.started).Milliseconds(),
	)

	return out.reply, nil
}

func (s *Service) execute(ctx context.Context, t *turn, res nlu.IntentResult) outcome {
	if route, ok := Dispatch(res); ok && s.querier != nil {
		t.advance(ctx, StateStructuredQuery)
		if out, ok := s.structured(ctx, t, route, res); ok {
			return out
		}
		t.advance(ctx, StateDocumentSearch)
		return s.documents(ctx, t, res)
	}

	switch res.Intent {
	case nlu.IntentWeather:
		if out, ok := s.weather(ctx, res); ok {
			return out
		}
	case nlu.IntentDistance:
		return outcome{reply: Reply{Summary: composeDistance(res), Source: SourceFallback}}
	case nlu.IntentChat:
		return s.chat(ctx, t, res)
	}

	t.advance(ctx, StateDocumentSearch)

	return s.documents(ctx, t, res)
}

// structured runs the dispatched query. ok is false when the turn should
// continue on the document path.
func (s *Service) structured(ctx context.Context, t *turn, route Route, res nlu.IntentResult) (outcome, bool) {
	params := route.Params(res)

	rows, err := s.querier.Execute(ctx, route.Function, params)
	if query.IsTransient(err) {
		slog.WarnContext(ctx, "transient query error, retrying once", "function", route.Function, "error", err)
		rows, err = s.querier.Execute(ctx, route.Function, params)
	}

	switch {
	case err == nil && !rows.Empty():
	case err == nil:
		slog.InfoContext(ctx, "structured query returned no rows", "function", route.Function)
		return outcome{}, false
	case errors.Is(err, query.ErrParamMissing), query.IsTransient(err):
		slog.WarnContext(ctx, "structured query unavailable, searching documents", "function", route.Function, "error", err)
		return outcome{}, false
	default:
		slog.ErrorContext(ctx, "structured query failed", "function", route.Function, "error", err)
		return s.ungrounded(ctx, t.message), true
	}

	reply := Reply{
		Source:     SourceSQL,
		Function:   route.Function,
		Hotels:     rows.Hotels,
		Promotions: rows.Promotions,
		Cities:     rows.Cities,
	}

	switch {
	case len(rows.Hotels) > 0:
		reply.Summary = composeHotels(route.Function, res, rows.Hotels)
	case len(rows.Promotions) > 0:
		reply.Summary = composePromotions(res, rows.Promotions)
	default:
		reply.Summary = composeCities(rows.Cities)
	}

	return outcome{reply: reply}, true
}

func (s *Service) weather(ctx context.Context, res nlu.IntentResult) (outcome, bool) {
	station := res.Entities.Station
	if s.options.Weather == nil || len(station) == 0 {
		return outcome{}, false
	}

	report, err := s.options.Weather.Current(ctx, station)
	if err != nil {
		slog.WarnContext(ctx, "weather provider failed, searching documents", "station", station, "error", err)
		return outcome{}, false
	}

	summary := report.Summary()
	if name := res.Entities.EntityName; len(name) > 0 && !strings.EqualFold(name, station) {
		summary = fmt.Sprintf("%s (khu vực %s) %s", name, station, lowerFirst(summary))
	}

	out := outcome{reply: Reply{Summary: summary, Source: SourceWeather, Weather: &report}}
	if !res.Entities.EntityInherited {
		out.entityName = res.Entities.EntityName
		out.entityType = res.Entities.EntityType
	}

	return out, true
}

func (s *Service) documents(ctx context.Context, t *turn, res nlu.IntentResult) outcome {
	ents := res.Entities

	if res.Intent == nlu.IntentPlaceInfo && len(ents.EntityName) == 0 {
		return outcome{reply: Reply{Summary: missingEntity, Source: SourceFallback}}
	}

	var records []storer.Record
	var out outcome

	if len(ents.EntityName) > 0 {
		rec, ok, err := s.retrieval.Lookup(ctx, ents.EntityName, storer.Filter{})
		if err != nil {
			slog.WarnContext(ctx, "entity lookup failed", "entity", ents.EntityName, "error", err)
		}
		if ok {
			records = []storer.Record{rec}
		}
	}

	if len(records) == 0 {
		found, err := s.search(ctx, t.message, res)
		if err != nil {
			slog.ErrorContext(ctx, "document search failed", "error", err)
			return s.ungrounded(ctx, t.message)
		}
		records = found

		if len(records) > 1 && res.Intent == nlu.IntentPlaceInfo {
			records = []storer.Record{records[s.rerank(ctx, t.message, records)]}
		}
	}

	if len(records) == 0 {
		return s.ungrounded(ctx, t.message)
	}

	if res.Intent == nlu.IntentPlaceInfo || res.Intent == nlu.IntentWeather {
		if len(ents.EntityName) == 0 || !ents.EntityInherited {
			out.entityName = records[0].Metadata.Name
			out.entityType = records[0].Metadata.Type
		}
	} else if len(records) > ents.TopN && ents.TopN > 0 {
		records = s.retrieval.Diversify(records, ents.TopN)
	}

	places, dishes := itemsFrom(records)
	out.reply = Reply{
		Places: places,
		Dishes: dishes,
		Source: SourceVector,
	}

	if summary, ok := s.summarize(ctx, t.message, records); ok {
		out.reply.Summary = summary
		out.reply.Source = SourceVectorLLM
		return out
	}

	out.reply.Summary = composeDocuments(res.Intent, ents.City, records)

	return out
}

func (s *Service) search(ctx context.Context, message string, res nlu.IntentResult) ([]storer.Record, error) {
	ents := res.Entities

	filter := storer.Filter{Province: ents.City}
	switch res.Intent {
	case nlu.IntentDishes:
		filter.Type = storer.TypeDish
	case nlu.IntentPlaces:
		filter.Type = storer.TypePlace
	}

	k := ents.TopN
	if res.Intent == nlu.IntentPlaceInfo {
		k = placeInfoK
	}

	terms := []string{message}
	if ents.EntityInherited {
		terms = append(terms, ents.EntityName)
	}
	if ents.CityInherited {
		terms = append(terms, ents.City)
	}
	terms = append(terms, ents.Filters.Terms()...)
	text := strings.Join(terms, " ")

	found, err := s.retrieval.Search(ctx, text, filter, k)
	if err != nil {
		return nil, err
	}

	if len(found.Records) == 0 && len(filter.Type) > 0 && len(filter.Province) > 0 {
		filter.Type = ""
		found, err = s.retrieval.Search(ctx, text, filter, k)
		if err != nil {
			return nil, err
		}
	}

	return found.Records, nil
}

// summarize produces a grounded summary; ok is false when no generator is
// configured or the output fails the grounding check.
func (s *Service) summarize(ctx context.Context, message string, records []storer.Record) (string, bool) {
	if s.options.Generator == nil {
		return "", false
	}

	out, err := s.options.Generator.Generate(ctx, groundedPrompt(message, records), generator.WithTemperature(groundedTemperature))
	if err != nil {
		slog.WarnContext(ctx, "grounded generation failed", "error", err)
		return "", false
	}

	sources := []string{message}
	for _, rec := range records {
		sources = append(sources, rec.Content, rec.Metadata.Name)
	}

	if !grounded(out, sources...) {
		slog.WarnContext(ctx, "discarded ungrounded summary")
		return "", false
	}

	return strings.TrimSpace(out), true
}

func (s *Service) rerank(ctx context.Context, message string, records []storer.Record) int {
	if s.options.Generator == nil {
		return 0
	}

	out, err := s.options.Generator.Generate(ctx, rerankPrompt(message, records), generator.WithTemperature(rerankTemperature), generator.WithJSON())
	if err != nil {
		slog.WarnContext(ctx, "rerank failed", "error", err)
		return 0
	}

	return parseRerank(out, len(records))
}

// ungrounded answers without data. The source is always fallback.
func (s *Service) ungrounded(ctx context.Context, message string) outcome {
	reply := Reply{Summary: notFoundMessage, Source: SourceFallback}

	if s.options.Generator == nil {
		return outcome{reply: reply}
	}

	out, err := s.options.Generator.Generate(ctx, ungroundedPrompt(message), generator.WithTemperature(ungroundedTemperature))
	if err != nil {
		slog.WarnContext(ctx, "fallback generation failed", "error", err)
		return outcome{reply: reply}
	}

	out = strings.TrimSpace(out)
	if len(out) == 0 || storer.ViolatesLanguagePolicy(out) {
		return outcome{reply: reply}
	}

	reply.Summary = out

	return outcome{reply: reply}
}

func (s *Service) chat(ctx context.Context, t *turn, res nlu.IntentResult) outcome {
	fallback := outcome{reply: Reply{Summary: smallTalkMessage, Source: SourceFallback}}

	if s.options.Generator == nil {
		return fallback
	}

	var records []storer.Record
	if found, err := s.retrieval.Search(ctx, t.message, storer.Filter{Province: res.Entities.City}, chatK); err == nil {
		records = found.Records
	}

	if len(records) > 0 {
		if summary, ok := s.summarize(ctx, t.message, records); ok {
			return outcome{reply: Reply{Summary: summary, Source: SourceVectorLLM}}
		}
	}

	out, err := s.options.Generator.Generate(ctx, ungroundedPrompt(t.message), generator.WithTemperature(ungroundedTemperature))
	if err != nil || len(strings.TrimSpace(out)) == 0 || storer.ViolatesLanguagePolicy(out) {
		return fallback
	}

	return outcome{reply: Reply{Summary: strings.TrimSpace(out), Source: SourceFallback}}
}

// merge folds a turn into the session. Only values this turn resolved
// explicitly overwrite what the session holds.
func merge(c *session.Context, res nlu.IntentResult, out outcome, message string, now time.Time, window int) {
	ents := res.Entities

	if len(ents.City) > 0 && !ents.CityInherited {
		if c.City != ents.City && len(out.entityName) == 0 && len(ents.EntityName) == 0 {
			c.LastEntityName = ""
			c.LastEntityType = ""
		}
		c.City = ents.City
	}

	switch {
	case len(out.entityName) > 0:
		c.LastEntityName = out.entityName
		c.LastEntityType = out.entityType
	case len(ents.EntityName) > 0 && !ents.EntityInherited:
		c.LastEntityName = ents.EntityName
		c.LastEntityType = ents.EntityType
	}

	c.LastIntent = string(res.Intent)
	c.UpdatedAt = now
	c.AppendTurn(session.Turn{
		Message: message,
		Intent:  string(res.Intent),
		Source:  string(out.reply.Source),
		Summary: out.reply.Summary,
		At:      now,
	}, window)
}

func lowerFirst(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	return strings.ToLower(string(r[0])) + string(r[1:])
}

func New(
	classifier *nlu.Classifier,
	sessions session.Store,
	querier query.Querier,
	retrieval *retrieval.Service,
	opts ...Option,
) *Service {
	return &Service{
		classifier: classifier,
		sessions:   sessions,
		querier:    querier,
		retrieval:  retrieval,
		options:    NewOptions(opts...),
	}
}
