package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/w-h-a/bookflow/internal/service/assistant"
	"github.com/w-h-a/bookflow/query"
	"github.com/w-h-a/bookflow/server"
)

const (
	maxBody             = 16 << 10
	queryFailedMessage  = "Không thể truy vấn dữ liệu lúc này, bạn vui lòng thử lại sau."
	missingMessage      = "message is required"
	missingSessionId    = "x-session-id header is required"
	invalidBodyMessage  = "invalid json body"
	defaultCatalogLimit = 10
)

type Assistant interface {
	Respond(ctx context.Context, sessionId string, message string) (assistant.Reply, error)
}

type aiHandler struct {
	assistant Assistant
	querier   query.Querier
	dedupe    *dedupe
	options   Options
}

type suggestRequest struct {
	Message string `json:"message"`
}

// Suggest answers one chat turn.
func (h *aiHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	sessionId := strings.TrimSpace(r.Header.Get(HeaderSessionId))
	if len(sessionId) == 0 {
		writeError(w, http.StatusBadRequest, missingSessionId)
		return
	}

	var req suggestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	message := strings.TrimSpace(req.Message)
	if len(message) == 0 {
		writeError(w, http.StatusBadRequest, missingMessage)
		return
	}

	user := UserFrom(r.Context())
	start := h.options.Clock()

	if h.dedupe != nil {
		if reply, ok := h.dedupe.get(user, sessionId, message); ok {
			slog.InfoContext(r.Context(), "served duplicate request", "session_id", sessionId, "request_id", RequestIdFrom(r.Context()))
			w.Header().Set(HeaderDedupe, "1")
			writeReply(w, reply, h.options.Clock().Sub(start))
			return
		}
	}

	reply, err := h.assistant.Respond(r.Context(), sessionId, message)
	if errors.Is(err, assistant.ErrUnavailable) {
		w.Header().Set(HeaderSource, string(assistant.SourceFallback))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"summary": assistant.UnavailableMessage,
			"source":  assistant.SourceFallback,
		})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "unexpected assistant error", "session_id", sessionId, "error", err)
		writeError(w, http.StatusInternalServerError, assistant.ApologyMessage)
		return
	}

	if h.dedupe != nil {
		h.dedupe.put(user, sessionId, message, reply)
	}

	writeReply(w, reply, h.options.Clock().Sub(start))
}

func (h *aiHandler) TopHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	h.execute(w, r, query.TopHotelsByCity, query.Params{
		query.ParamCity:  strings.TrimSpace(q.Get("city")),
		query.ParamLimit: intParam(q.Get("limit"), defaultCatalogLimit),
	})
}

type amenitiesRequest struct {
	City      string   `json:"city"`
	Amenities []string `json:"amenities"`
	Limit     int      `json:"limit"`
}

func (h *aiHandler) HotelsByAmenities(w http.ResponseWriter, r *http.Request) {
	var req amenitiesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	params := query.Params{
		query.ParamCity:  strings.TrimSpace(req.City),
		query.ParamLimit: req.Limit,
	}
	if len(req.Amenities) > 0 {
		params[query.ParamAmenities] = req.Amenities
	}
	if req.Limit <= 0 {
		params[query.ParamLimit] = defaultCatalogLimit
	}

	h.execute(w, r, query.HotelsByCityWithAmenities, params)
}

func (h *aiHandler) SearchHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	h.execute(w, r, query.SearchHotels, query.Params{
		query.ParamKeyword: strings.TrimSpace(q.Get("q")),
		query.ParamCity:    strings.TrimSpace(q.Get("city")),
		query.ParamLimit:   intParam(q.Get("limit"), defaultCatalogLimit),
	})
}

func (h *aiHandler) Cities(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, query.ListHotelCities, query.Params{})
}

// Promotions picks the month query when a month is given, then the city
// query, then everything valid today.
func (h *aiHandler) Promotions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	city := strings.TrimSpace(q.Get("city"))
	params := query.Params{
		query.ParamCity:    city,
		query.ParamKeyword: strings.TrimSpace(q.Get("q")),
		query.ParamLimit:   intParam(q.Get("limit"), query.MaxLimit),
	}

	fn := query.PromotionsValidToday
	switch {
	case len(q.Get("month")) > 0:
		fn = query.PromotionsByKeywordCityMonth
		month := intParam(q.Get("month"), 0)
		if month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		params[query.ParamMonth] = month
		params[query.ParamYear] = intParam(q.Get("year"), h.options.Clock().Year())
	case len(city) > 0:
		fn = query.PromotionsByCity
	}

	h.execute(w, r, fn, params)
}

func (h *aiHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *aiHandler) execute(w http.ResponseWriter, r *http.Request, fn string, params query.Params) {
	start := h.options.Clock()

	res, err := h.querier.Execute(r.Context(), fn, params)
	switch {
	case errors.Is(err, query.ErrParamMissing):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "catalog query failed", "function", fn, "request_id", RequestIdFrom(r.Context()), "error", err)
		writeError(w, http.StatusBadGateway, queryFailedMessage)
		return
	}

	var data any
	switch {
	case len(res.Hotels) > 0:
		data = res.Hotels
	case len(res.Promotions) > 0:
		data = res.Promotions
	case len(res.Cities) > 0:
		data = res.Cities
	default:
		data = []any{}
	}

	w.Header().Set(HeaderSource, "sql:"+fn)
	w.Header().Set(HeaderLatency, latency(h.options.Clock().Sub(start)))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"function": fn,
		"data":     data,
	})
}

// Register mounts the handler routes on s.
func Register(s server.Server, h *aiHandler) {
	s.Handle(http.MethodPost, "/ai/suggest", http.HandlerFunc(h.Suggest))
	s.Handle(http.MethodGet, "/ai/hotels/top", http.HandlerFunc(h.TopHotels))
	s.Handle(http.MethodPost, "/ai/hotels/amenities", http.HandlerFunc(h.HotelsByAmenities))
	s.Handle(http.MethodGet, "/ai/hotels/search", http.HandlerFunc(h.SearchHotels))
	s.Handle(http.MethodGet, "/ai/hotels/cities", http.HandlerFunc(h.Cities))
	s.Handle(http.MethodGet, "/ai/promotions", http.HandlerFunc(h.Promotions))
	s.Handle(http.MethodGet, "/healthz", http.HandlerFunc(h.Health))
}

func decode(r *http.Request, v any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return err
	}
	defer r.Body.Close()

	if len(raw) == 0 {
		return nil
	}

	return json.Unmarshal(raw, v)
}

func writeReply(w http.ResponseWriter, reply assistant.Reply, took time.Duration) {
	w.Header().Set(HeaderSource, string(reply.Source))
	w.Header().Set(HeaderLatency, latency(took))
	writeJSON(w, http.StatusOK, reply)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func latency(d time.Duration) string {
	return fmt.Sprintf("%.1f", float64(d.Microseconds())/1000)
}

func intParam(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func NewAIHandler(a Assistant, q query.Querier, opts ...Option) *aiHandler {
	options := NewOptions(opts...)

	h := &aiHandler{
		assistant: a,
		querier:   q,
		options:   options,
	}

	if options.Dedupe {
		h.dedupe = newDedupe(options.CacheClock)
	}

	return h
}
