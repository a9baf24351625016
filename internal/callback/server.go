// Package callback exposes registered script callbacks over the HTTP
// transport the overlay UI uses for request/response calls, mirroring the
// host runtime's `https://<resource>/<endpoint>` convention.
package callback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nk/nuibridge/internal/ctxlog"
	"github.com/nk/nuibridge/internal/script"
)

// Handler resolves a single endpoint call. *script.Engine satisfies it.
type Handler interface {
	InvokeCallback(ctx context.Context, endpoint string, body []byte) ([]byte, error)
}

// Server serves callback requests over HTTP. Each request is answered
// exactly once; the server offers no retry or buffering.
type Server struct {
	handler    Handler
	httpServer *http.Server
	baseCtx    context.Context
}

// NewServer creates a Server routing requests into the handler. The context
// carries the logger and bounds the server's lifetime.
func NewServer(ctx context.Context, handler Handler) *Server {
	return &Server{handler: handler, baseCtx: ctx}
}

// Routes returns the HTTP handler so tests can mount it on httptest.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveCallback)
	return mux
}

// serveCallback handles POST /<endpoint>.
func (s *Server) serveCallback(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(s.baseCtx)

	if r.Method != http.MethodPost {
		http.Error(w, "callback requests must use POST", http.StatusMethodNotAllowed)
		return
	}

	endpoint := strings.Trim(r.URL.Path, "/")
	if endpoint == "" {
		http.Error(w, "missing endpoint name", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	logger.Debug("Callback request received.", "endpoint", endpoint, "remote_addr", r.RemoteAddr)
	resp, err := s.handler.InvokeCallback(r.Context(), endpoint, body)
	if err != nil {
		if errors.Is(err, script.ErrNoCallback) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.Error("Callback handler failed.", "endpoint", endpoint, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(resp)
}

// Start runs the server on the given port in a background goroutine.
func (s *Server) Start(port int) {
	logger := ctxlog.FromContext(s.baseCtx)

	addr := fmt.Sprintf(":%d", port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	go func() {
		logger.Info("Callback server starting.", "address", fmt.Sprintf("http://localhost%s/", addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Callback server failed unexpectedly.", "error", err)
		}
	}()
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	logger := ctxlog.FromContext(s.baseCtx)
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down callback server.")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Callback server shutdown failed.", "error", err)
		return err
	}
	return nil
}
