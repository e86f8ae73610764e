// Package httpapi implements a thin HTTP surface over an image: base
// environment, classes, methods, and the method-save endpoint, plus
// CORS preflight handling and a reserved WebSocket upgrade stub. It is
// a straightforward wrapper around pkg/image — no UI, no bundler.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kristofer/son/pkg/image"
)

// Server wraps pkg/image.Store behind net/http's ServeMux, following the
// reference pack's own recover → CORS → request-log middleware chain
// shape (there built from a router's .Use chain; here hand-written over
// http.Handler since the reference router's own internals are not part
// of the dependency surface this repository carries).
type Server struct {
	store  image.Store
	logger *slog.Logger
	mux    *http.ServeMux
}

// New builds a Server backed by store, logging through logger.
func New(store image.Store, logger *slog.Logger) *Server {
	s := &Server{store: store, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /base-environment", s.handleBaseEnvironment)
	s.mux.HandleFunc("GET /classes", s.handleClasses)
	s.mux.HandleFunc("GET /methods/{className}", s.handleMethods)
	s.mux.HandleFunc("GET /method/{className}/{selector}", s.handleMethod)
	s.mux.HandleFunc("POST /method", s.handleSaveMethod)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the fully wrapped http.Handler, middleware applied
// outside-in: recover, then CORS, then request logging.
func (s *Server) Handler() http.Handler {
	return recoverMiddleware(s.logger)(corsMiddleware()(requestLogMiddleware(s.logger)(s.mux)))
}

// ListenAndServe starts the server on addr and blocks until ctx is
// cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
