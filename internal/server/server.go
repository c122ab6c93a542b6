// Package server exposes a board store over HTTP
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/thenoetrevino/tablero/internal/board"
)

// Server serves the columns / cards / cardsOrder API
type Server struct {
	store    board.Store
	metrics  *Metrics
	router   *mux.Router
	listener net.Listener
	http     *http.Server

	// orderMu makes check-then-patch of the cards order atomic
	orderMu      sync.Mutex
	shutdownOnce sync.Once
}

// NewServer creates a server listening on addr. Use ":0" for a random port.
func NewServer(addr string, store board.Store) (*Server, error) {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &Server{
		store:    store,
		metrics:  NewMetrics(),
		listener: listener,
	}
	s.router = s.routes()
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Addr returns the address the server is listening on
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Metrics returns the live counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the HTTP handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled or the listener fails, then shuts down
func (s *Server) Start(ctx context.Context) error {
	slog.Info("server starting", "addr", s.Addr())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		slog.Info("server context cancelled, shutting down")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("serve error", "error", err)
			_ = s.Shutdown()
			return err
		}
	}

	return s.Shutdown()
}

// Shutdown stops accepting requests and waits up to five seconds for
// in-flight ones
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.http.Shutdown(ctx)
		// Serve may never have run; release the port either way
		_ = s.listener.Close()
		snap := s.metrics.GetSnapshot()
		slog.Info("server stopped",
			"requests", snap.RequestsTotal,
			"patches", snap.PatchesApplied,
			"uptime", snap.Uptime)
	})
	return err
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.Methods(http.MethodGet).Path("/columns").HandlerFunc(s.listColumns)
	r.Methods(http.MethodGet).Path("/cards").HandlerFunc(s.listCards)
	r.Methods(http.MethodPost).Path("/cards").HandlerFunc(s.createCard)
	r.Methods(http.MethodDelete).Path("/cards/{id}").HandlerFunc(s.deleteCard)
	r.Methods(http.MethodGet).Path("/cardsOrder").HandlerFunc(s.getCardsOrder)
	r.Methods(http.MethodPatch).Path("/cardsOrder").HandlerFunc(s.patchCardsOrder)
	r.Methods(http.MethodGet).Path("/metrics").HandlerFunc(s.getMetrics)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.metrics.IncRequests()
		if m.Code >= http.StatusBadRequest {
			s.metrics.IncRequestErrors()
		}
		slog.Info("handled", "method", r.Method, "url", r.URL, "duration", m.Duration, "status", m.Code)
	})
}
