package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"beatstore/internal/checkout"
	"beatstore/internal/config"
	"beatstore/internal/fulfillment"
	"beatstore/internal/logging"
	"beatstore/internal/store"
)

// Server hosts the storefront HTTP surface.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	pipeline *fulfillment.Pipeline
	engine   *checkout.Engine
	logger   *slog.Logger

	mux      *http.ServeMux
	listener net.Listener
	server   *http.Server
}

// NewServer wires the HTTP routes over the shared store and pipeline.
func NewServer(cfg *config.Config, st *store.Store, pipeline *fulfillment.Pipeline, engine *checkout.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		cfg:      cfg,
		store:    st,
		pipeline: pipeline,
		engine:   engine,
		logger:   logging.WithComponent(logger, "api"),
		mux:      http.NewServeMux(),
	}

	srv.mux.HandleFunc("/health", srv.handleHealth)
	srv.mux.HandleFunc("/api/beats", srv.handleBeats)
	srv.mux.HandleFunc("/api/licenses", srv.handleLicenses)
	srv.mux.HandleFunc("/api/quote", srv.handleQuote)
	srv.mux.HandleFunc("/webhook", srv.handleWebhook)
	if cfg.Checkout.DevEndpoints {
		srv.mux.HandleFunc("/dev/simulate-purchase", srv.handleSimulate)
	}
	srv.mux.Handle("/media/", http.StripPrefix("/media/",
		http.FileServer(http.Dir(cfg.Paths.MediaDir))))

	srv.server = &http.Server{
		Handler:           srv.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start binds the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Store.Bind)
	if bind == "" {
		return errors.New("bind address not configured")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, allowing in-flight fulfillment runs a grace
// period to finish.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound listen address, for logs and tests.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
