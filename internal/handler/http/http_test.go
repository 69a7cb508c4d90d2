package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bluele/gcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/internal/service/assistant"
	"github.com/w-h-a/bookflow/query"
	"github.com/w-h-a/bookflow/server"
	httpserver "github.com/w-h-a/bookflow/server/http"
)

type fakeAssistant struct {
	reply assistant.Reply
	err   error
	calls int
}

func (f *fakeAssistant) Respond(ctx context.Context, sessionId string, message string) (assistant.Reply, error) {
	f.calls++
	return f.reply, f.err
}

func testCatalog(t *testing.T, fail error) *query.Catalog {
	t.Helper()

	c := query.NewCatalog()
	for _, spec := range query.Specs() {
		require.NoError(t, c.Register(spec, func(ctx context.Context, params query.Params) (query.Result, error) {
			if fail != nil {
				return query.Result{}, fail
			}
			switch spec.Name {
			case query.TopHotelsByCity:
				return query.Result{Hotels: []query.Hotel{{Id: "h1", Name: "Rex", City: params.String(query.ParamCity)}}}, nil
			case query.ListHotelCities:
				return query.Result{Cities: []string{"Đà Nẵng", "Hồ Chí Minh"}}, nil
			}
			return query.Result{}, nil
		}))
	}

	return c
}

func newTestServer(t *testing.T, a Assistant, q query.Querier, opts ...Option) http.Handler {
	t.Helper()

	srv := httpserver.NewServer(
		server.WithAddress("127.0.0.1:0"),
		httpserver.WithMiddleware(
			Recover,
			RequestId,
			Auth([]string{"secret"}, "/healthz"),
			RateLimit(time.Minute, 100),
		),
	)

	Register(srv, NewAIHandler(a, q, opts...))

	return srv.Handler()
}

func suggest(h http.Handler, session, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ai/suggest", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	if len(session) > 0 {
		req.Header.Set("x-session-id", session)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSuggest(t *testing.T) {
	a := &fakeAssistant{reply: assistant.Reply{
		Summary: "Top 1 khách sạn tại Hồ Chí Minh",
		Source:  assistant.SourceSQL,
		Hotels:  []query.Hotel{{Id: "h1", Name: "Rex", City: "Hồ Chí Minh"}},
	}}
	h := newTestServer(t, a, testCatalog(t, nil))

	rec := suggest(h, "s1", `{"message":"Top 5 khách sạn Hồ Chí Minh"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sql", rec.Header().Get(HeaderSource))
	assert.NotEmpty(t, rec.Header().Get(HeaderLatency))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestId))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sql", body["source"])
	assert.Len(t, body["hotels"], 1)
}

func TestSuggest_Validation(t *testing.T) {
	a := &fakeAssistant{}
	h := newTestServer(t, a, testCatalog(t, nil))

	assert.Equal(t, http.StatusBadRequest, suggest(h, "", `{"message":"xin chào"}`).Code)
	assert.Equal(t, http.StatusBadRequest, suggest(h, "s1", `{"message":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, suggest(h, "s1", `{"message":`).Code)
	assert.Zero(t, a.calls)
}

func TestSuggest_Unavailable(t *testing.T) {
	a := &fakeAssistant{err: assistant.ErrUnavailable}
	h := newTestServer(t, a, testCatalog(t, nil))

	rec := suggest(h, "s1", `{"message":"Review Eo Gió"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "fallback")
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestSuggest_Dedupe(t *testing.T) {
	clock := gcache.NewFakeClock()
	a := &fakeAssistant{reply: assistant.Reply{Summary: "Chào bạn", Source: assistant.SourceFallback}}
	h := newTestServer(t, a, testCatalog(t, nil), WithCacheClock(clock))

	first := suggest(h, "s1", `{"message":"Xin chào"}`)
	second := suggest(h, "s1", `{"message":"xin chao"}`)

	assert.Equal(t, 1, a.calls)
	assert.Empty(t, first.Header().Get(HeaderDedupe))
	assert.Equal(t, "1", second.Header().Get(HeaderDedupe))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	suggest(h, "s2", `{"message":"xin chao"}`)
	assert.Equal(t, 2, a.calls)

	clock.Advance(3 * time.Second)
	suggest(h, "s1", `{"message":"xin chao"}`)
	assert.Equal(t, 3, a.calls)
}

func TestAuth(t *testing.T) {
	h := newTestServer(t, &fakeAssistant{}, testCatalog(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/ai/hotels/cities", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_AnyBearerWhenUnconfigured(t *testing.T) {
	h := Auth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEqual(t, "anonymous", UserFrom(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(time.Minute, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRequestIdPropagates(t *testing.T) {
	var seen string
	h := RequestId(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIdFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestId, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestId))
}

func TestCatalogEndpoints(t *testing.T) {
	h := newTestServer(t, &fakeAssistant{}, testCatalog(t, nil))

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/ai/hotels/top?city=" + url.QueryEscape("Hồ Chí Minh") + "&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sql:"+query.TopHotelsByCity, rec.Header().Get(HeaderSource))
	assert.Contains(t, rec.Body.String(), "Rex")

	assert.Equal(t, http.StatusBadRequest, get("/ai/hotels/top").Code)
	assert.Equal(t, http.StatusBadRequest, get("/ai/hotels/search?city=" + url.QueryEscape("Huế")).Code)
	assert.Equal(t, http.StatusBadRequest, get("/ai/promotions?month=13").Code)

	rec = get("/ai/hotels/cities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Đà Nẵng")

	rec = get("/ai/promotions?city=" + url.QueryEscape("Đà Nẵng"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sql:"+query.PromotionsByCity, rec.Header().Get(HeaderSource))
}

func TestCatalogEndpoints_QueryFailure(t *testing.T) {
	fail := &query.QueryError{Kind: query.Fatal, Function: query.ListHotelCities, Err: errors.New(`relation "hotels" does not exist`)}
	h := newTestServer(t, &fakeAssistant{}, testCatalog(t, fail))

	req := httptest.NewRequest(http.MethodGet, "/ai/hotels/cities", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}
