package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/w-h-a/bookflow/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options  server.Options
	router   *mux.Router
	srv      *http.Server
	listener net.Listener
	mtx      sync.RWMutex
	errCh    chan error
}

func (s *httpServer) Options() server.Options {
	return s.options
}

func (s *httpServer) Handle(method, path string, h http.Handler) {
	s.router.Handle(path, h).Methods(method)
}

// Handler is the full chain: otelhttp, then middleware, then the router.
func (s *httpServer) Handler() http.Handler {
	var h http.Handler = s.router

	ms, _ := MiddlewareFrom(s.options.Context)
	for i := len(ms) - 1; i >= 0; i-- {
		h = ms[i](h)
	}

	return otelhttp.NewHandler(h, s.options.Name)
}

func (s *httpServer) Start() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	listener, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}

	s.listener = listener
	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.options.ReadTimeout,
		WriteTimeout: s.options.WriteTimeout,
	}

	slog.InfoContext(s.options.Context, "http server listening", "address", listener.Addr().String())

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(s.options.Context, "http server stopped", "error", err)
			select {
			case s.errCh <- err:
			default:
			}
		}
	}()

	return nil
}

func (s *httpServer) Stop() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
	defer cancel()

	return s.srv.Shutdown(ctx)
}

// Errors reports a serve failure after Start returned.
func (s *httpServer) Errors() <-chan error {
	return s.errCh
}

// Addr is the bound address once started.
func (s *httpServer) Addr() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.listener == nil {
		return s.options.Address
	}

	return s.listener.Addr().String()
}

func (s *httpServer) String() string {
	return "http"
}

func NewServer(opts ...server.Option) *httpServer {
	options := server.NewOptions(opts...)

	return &httpServer{
		options: options,
		router:  mux.NewRouter(),
		errCh:   make(chan error, 1),
	}
}
