package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	HeaderRequestId = "X-Request-Id"
	HeaderSessionId = "X-Session-Id"
	HeaderSource    = "X-Source"
	HeaderLatency   = "X-Latency-ms"
	HeaderDedupe    = "X-Dedupe"
)

type requestIdKey struct{}

type userKey struct{}

func RequestIdFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// UserFrom returns the caller identity set by Auth, or "anonymous".
func UserFrom(ctx context.Context) string {
	if user, ok := ctx.Value(userKey{}).(string); ok && len(user) > 0 {
		return user
	}
	return "anonymous"
}

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "handler panicked", "path", r.URL.Path, "request_id", RequestIdFrom(r.Context()), "panic", fmt.Sprint(rec))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestId propagates an incoming X-Request-Id or assigns a new one.
func RequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestId))
		if len(id) == 0 {
			id = uuid.New().String()
		}

		w.Header().Set(HeaderRequestId, id)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIdKey{}, id)))
	})
}

// Auth requires a bearer token. With no configured tokens any non-empty
// bearer is accepted. Paths in open skip the check.
func Auth(tokens []string, open ...string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	for _, t := range tokens {
		if t = strings.TrimSpace(t); len(t) > 0 {
			allowed[t] = struct{}{}
		}
	}

	skip := map[string]struct{}{}
	for _, p := range open {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearer(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			if len(allowed) > 0 {
				if _, ok := allowed[token]; !ok {
					writeError(w, http.StatusUnauthorized, "invalid bearer token")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, identity(token))))
		})
	}
}

// RateLimit allows max requests per window for each caller, keyed by user
// or by remote address for anonymous callers.
func RateLimit(window time.Duration, max int) func(http.Handler) http.Handler {
	if max < 1 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	every := rate.Every(window / time.Duration(max))

	limiters := gcache.New(10000).
		LRU().
		Expiration(2 * window).
		LoaderFunc(func(key interface{}) (interface{}, error) {
			return rate.NewLimiter(every, max), nil
		}).
		Build()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := UserFrom(r.Context())
			if key == "anonymous" {
				key = remoteHost(r)
			}

			v, err := limiters.Get(key)
			if err == nil {
				if limiter, ok := v.(*rate.Limiter); ok && !limiter.Allow() {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
					writeError(w, http.StatusTooManyRequests, "too many requests")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[7:])
	return token, len(token) > 0
}

func identity(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "user:" + hex.EncodeToString(sum[:8])
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
