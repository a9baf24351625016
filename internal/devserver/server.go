// Package devserver provides the development-mode message channel: a
// socket.io server that pushes dispatched bridge messages to every
// connected overlay UI, plus a static file server for the UI assets. In
// production the game client supplies this channel itself; nothing in this
// package runs embedded.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nk/nuibridge/internal/bridge"
	"github.com/nk/nuibridge/internal/ctxlog"
	"github.com/zishang520/socket.io/v2/socket"
)

// MessageEvent is the socket.io event name carrying bridge envelopes.
const MessageEvent = "ui:message"

// Server fans dispatched messages out to connected UI clients. It
// implements bridge.Transport; per-client delivery order follows send
// order, matching the FIFO guarantee of the embedded message channel.
type Server struct {
	io         *socket.Server
	httpServer *http.Server
	uiDir      string
	baseCtx    context.Context

	mu      sync.Mutex
	clients map[string]*socket.Socket
}

// NewServer creates a Server. The context carries the logger and is used
// for connection-lifecycle logging.
func NewServer(ctx context.Context, uiDir string) *Server {
	s := &Server{
		io:      socket.NewServer(nil, nil),
		uiDir:   uiDir,
		baseCtx: ctx,
		clients: make(map[string]*socket.Socket),
	}

	s.io.On("connection", func(args ...any) {
		client := args[0].(*socket.Socket)
		id := string(client.Id())
		logger := ctxlog.FromContext(s.baseCtx)
		logger.Info("UI client connected.", "sid", id)

		s.mu.Lock()
		s.clients[id] = client
		s.mu.Unlock()

		client.On("disconnect", func(...any) {
			logger.Info("UI client disconnected.", "sid", id)
			s.mu.Lock()
			delete(s.clients, id)
			s.mu.Unlock()
		})
	})

	return s
}

// Send implements bridge.Transport by emitting the envelope to every
// connected client. Sending with no clients connected succeeds silently;
// the contract is fire and forget and registrations created later never
// see earlier messages.
func (s *Server) Send(ctx context.Context, msg bridge.Message) error {
	s.mu.Lock()
	clients := make([]*socket.Socket, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Broadcasting UI message.", "action", msg.Action, "clients", len(clients))
	for _, c := range clients {
		if err := c.Emit(MessageEvent, msg); err != nil {
			return fmt.Errorf("failed to emit %q to client %s: %w", msg.Action, string(c.Id()), err)
		}
	}
	return nil
}

// ClientCount returns the number of connected UI clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Start serves the socket.io endpoint and the static UI directory on the
// given port in a background goroutine.
func (s *Server) Start(port int) {
	logger := ctxlog.FromContext(s.baseCtx)

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})
	if s.uiDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.uiDir)))
	}

	addr := fmt.Sprintf(":%d", port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("Dev server starting.", "address", fmt.Sprintf("http://localhost%s/", addr), "ui_dir", s.uiDir)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Dev server failed unexpectedly.", "error", err)
		}
	}()
}

// Close disconnects every client and shuts the HTTP listener down.
func (s *Server) Close() error {
	logger := ctxlog.FromContext(s.baseCtx)
	logger.Info("Shutting down dev server.")

	s.io.Close(nil)

	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Dev server shutdown failed.", "error", err)
		return err
	}
	return nil
}
