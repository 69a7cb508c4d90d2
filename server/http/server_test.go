package http

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/server"
)

func tag(name string, order *[]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestHandlerAppliesMiddlewareInOrder(t *testing.T) {
	var order []string

	srv := NewServer(WithMiddleware(tag("outer", &order), tag("inner", &order)))
	srv.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestHandleRestrictsMethod(t *testing.T) {
	srv := NewServer()
	srv.Handle(http.MethodPost, "/ai/suggest", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ai/suggest", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStartStop(t *testing.T) {
	srv := NewServer(server.WithAddress("127.0.0.1:0"))
	srv.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))

	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })

	rsp, err := http.Get(fmt.Sprintf("http://%s/healthz", srv.Addr()))
	require.NoError(t, err)
	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "http", srv.String())
}
